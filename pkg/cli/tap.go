package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/geometry"
	"github.com/devicelab-dev/screenmatch/pkg/locator"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

var tapCommand = &cli.Command{
	Name:      "tap",
	Usage:     "Resolve an element and tap its center",
	ArgsUsage: "<description>",
	Description: `Resolve a description like the resolve command, then tap the element.
Android taps through adb; iOS simulators are clicked through cliclick after
mapping to host pixels.

Examples:
  screenmatch tap "sign in"
  screenmatch -p ios tap --dump window.xml "continue"
  screenmatch tap --x 540 --y 1200`,
	Flags: append([]cli.Flag{
		&cli.UintFlag{Name: "x", Usage: "Tap this device X coordinate instead of resolving"},
		&cli.UintFlag{Name: "y", Usage: "Tap this device Y coordinate instead of resolving"},
		&cli.BoolFlag{Name: "dry-run", Usage: "Resolve and print without tapping"},
	}, matchFlags...),
	Action: runTap,
}

func runTap(c *cli.Context) error {
	description := strings.Join(c.Args().Slice(), " ")
	direct := c.IsSet("x") || c.IsSet("y")
	if !direct && strings.TrimSpace(description) == "" {
		return fmt.Errorf("an element description or --x/--y is required")
	}

	sess, err := newSession(c)
	if err != nil {
		return err
	}

	var res locator.Result
	if direct {
		res = locator.Result{
			Found:       true,
			X:           uint32(c.Uint("x")),
			Y:           uint32(c.Uint("y")),
			ElementType: locator.ElementGeneric,
			Confidence:  1,
			Description: "Explicit coordinate",
		}
	} else {
		res, err = sess.resolve(c, description)
		if err != nil {
			_ = writeJSON(c.App.Writer, res)
			return err
		}
	}

	if err := writeJSON(c.App.Writer, res); err != nil {
		return err
	}
	if c.Bool("dry-run") {
		return nil
	}
	return sess.tap(c, geometry.Point{X: res.X, Y: res.Y})
}

func (s *session) tap(c *cli.Context, p geometry.Point) error {
	ctx := c.Context
	if s.platform() == core.PlatformIOS {
		sim, err := s.simulator()
		if err != nil {
			return err
		}
		hp, err := sim.TapDevice(ctx, p)
		if err != nil {
			return err
		}
		logger.L().Info("tapped simulator",
			zap.Uint32("device_x", p.X), zap.Uint32("device_y", p.Y),
			zap.Int32("host_x", hp.X), zap.Int32("host_y", hp.Y))
		fmt.Fprintf(c.App.ErrWriter, "Tapped (%d, %d) at host (%d, %d)\n", p.X, p.Y, hp.X, hp.Y)
		return nil
	}

	d, err := s.android(ctx)
	if err != nil {
		return err
	}
	if err := d.Tap(ctx, int(p.X), int(p.Y)); err != nil {
		return err
	}
	logger.L().Info("tapped device", zap.String("serial", d.Serial()),
		zap.Uint32("x", p.X), zap.Uint32("y", p.Y))
	fmt.Fprintf(c.App.ErrWriter, "Tapped (%d, %d) on %s\n", p.X, p.Y, d.Serial())
	return nil
}
