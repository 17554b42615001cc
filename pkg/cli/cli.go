// Package cli provides the command-line interface for screenmatch.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Platform of the device (android, ios)",
		EnvVars: []string{"SCREENMATCH_PLATFORM"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"udid"},
		Usage:   "ADB serial or simulator UDID (auto-detected when empty)",
		EnvVars: []string{"SCREENMATCH_DEVICE"},
	},
	&cli.StringFlag{
		Name:    "adb-path",
		Usage:   "Path to the adb binary",
		EnvVars: []string{"SCREENMATCH_ADB_PATH"},
	},
	&cli.StringFlag{
		Name:  "config-dir",
		Usage: "Directory holding config.yaml",
		Value: ".",
	},
	&cli.StringSliceFlag{
		Name:  "env-file",
		Usage: "KEY=VALUE files loaded before reading the environment",
		Value: cli.NewStringSlice(".env"),
	},
	&cli.IntFlag{
		Name:    "title-bar",
		Usage:   "Simulator window title bar height in host pixels",
		Value:   -1,
		EnvVars: []string{"SCREENMATCH_TITLE_BAR"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"SCREENMATCH_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Also write JSON logs to this file",
		EnvVars: []string{"SCREENMATCH_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the application without running it.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "screenmatch",
		Usage:   "Locate UI elements by description and tap them",
		Version: Version,
		Description: `screenmatch resolves a natural-language element description such as
"tap the login button" or "press digit 3" against a device UI hierarchy
dump and reports the element's center in device pixels.

Examples:
  screenmatch resolve "login button"
  screenmatch resolve --dump window.xml --explain "press digit 3"
  screenmatch -p android tap "submit"
  screenmatch map --x 200 --y 400 --window 100,150,400,800 --screen 800x1600`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				colorsEnabled = false
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			resolveCommand,
			hierarchyCommand,
			mapCommand,
			tapCommand,
			devicesCommand,
			synonymsCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
