package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/device"
)

var devicesCommand = &cli.Command{
	Name:  "devices",
	Usage: "List Android devices or iOS simulators",
	Description: `List the devices screenmatch can talk to.

Examples:
  screenmatch devices
  screenmatch -p ios devices
  screenmatch devices --info`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "info",
			Usage: "Print platform details of the selected device as JSON",
		},
	},
	Action: runDevices,
}

var synonymsCommand = &cli.Command{
	Name:      "synonyms",
	Usage:     "Show the synonym table used for matching",
	ArgsUsage: "[term...]",
	Action:    runSynonyms,
}

func runDevices(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	w := c.App.Writer

	if sess.platform() == core.PlatformIOS {
		sim, err := sess.simulator()
		if err != nil {
			return err
		}
		if c.Bool("info") {
			info := core.PlatformInfo{Platform: core.PlatformIOS, DeviceID: sim.UDID, IsSimulator: true}
			if s, err := sim.ScreenSize(ctx); err == nil {
				info.ScreenWidth, info.ScreenHeight = int(s.Width), int(s.Height)
			}
			return writeJSON(w, info)
		}
		sims, err := sim.ListSimulators(ctx)
		if err != nil {
			return err
		}
		sort.Slice(sims, func(i, j int) bool { return sims[i].Name < sims[j].Name })
		for _, s := range sims {
			fmt.Fprintf(w, "%-40s %-10s iOS %-6s %s\n", s.UDID, s.State, s.OSVersion, s.Name)
		}
		return nil
	}

	if c.Bool("info") {
		d, err := sess.android(ctx)
		if device.IsNoDevices(err) {
			fmt.Fprintln(c.App.ErrWriter, err)
			return nil
		}
		if err != nil {
			return err
		}
		return writeJSON(w, d.Info(ctx))
	}

	entries, err := device.List(ctx, sess.cfg.ADBPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No Android devices attached")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-24s %-14s %s\n", e.Serial, e.State, e.Model)
	}
	return nil
}

func runSynonyms(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}
	table := sess.synonyms()

	terms := c.Args().Slice()
	if len(terms) == 0 {
		terms = table.Terms()
	}
	for _, term := range terms {
		words := table.Lookup(term)
		if words == nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: not a known term\n", term)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %s\n", strings.ToLower(term), strings.Join(words, ", "))
	}
	return nil
}
