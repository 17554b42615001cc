package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenmatch/pkg/geometry"
	"github.com/devicelab-dev/screenmatch/pkg/simulator"
)

var mapCommand = &cli.Command{
	Name:  "map",
	Usage: "Convert a device pixel coordinate to host screen pixels",
	Description: `Convert a device coordinate to the host screen pixel inside the Simulator
window. Window and screen are read from the running Simulator unless given.

The title bar offset is an approximation of the macOS window chrome
(default 28 px, see --title-bar).

Examples:
  screenmatch map --x 200 --y 400 --window 100,150,400,800 --screen 800x1600
  screenmatch map --request mapping.json
  screenmatch -p ios map --x 585 --y 1266`,
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "x", Usage: "Device X coordinate"},
		&cli.UintFlag{Name: "y", Usage: "Device Y coordinate"},
		&cli.StringFlag{
			Name:  "window",
			Usage: "Window frame as x,y,width,height in host pixels",
		},
		&cli.StringFlag{
			Name:  "screen",
			Usage: "Device screen as WIDTHxHEIGHT in device pixels",
		},
		&cli.StringFlag{
			Name:  "request",
			Usage: "Read a JSON mapping request from a file (- for stdin)",
		},
	},
	Action: runMap,
}

func runMap(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}

	req, err := sess.mapRequest(c)
	if err != nil {
		return err
	}
	resp, err := geometry.Handle(req)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, resp)
}

func (s *session) mapRequest(c *cli.Context) (geometry.MapRequest, error) {
	if path := c.String("request"); path != "" {
		src := fileSource{path: path, stdin: c.App.Reader}
		data, err := src.DumpUI(c.Context)
		if err != nil {
			return geometry.MapRequest{}, err
		}
		var req geometry.MapRequest
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			return geometry.MapRequest{}, fmt.Errorf("parse mapping request: %w", err)
		}
		return req, nil
	}

	var (
		w      geometry.WindowGeometry
		screen geometry.DeviceScreen
		sim    *simulator.Simulator
		err    error
	)
	if c.String("window") == "" || c.String("screen") == "" {
		if sim, err = s.simulator(); err != nil {
			return geometry.MapRequest{}, err
		}
	}

	if v := c.String("window"); v != "" {
		w, err = simulator.ParseWindowInfo(v)
	} else {
		w, err = sim.Window(c.Context)
	}
	if err != nil {
		return geometry.MapRequest{}, err
	}

	if v := c.String("screen"); v != "" {
		screen, err = parseSize(v)
	} else {
		screen, err = sim.ScreenSize(c.Context)
	}
	if err != nil {
		return geometry.MapRequest{}, err
	}

	tb := s.cfg.TitleBar()
	return geometry.MapRequest{
		DeviceX:            uint32(c.Uint("x")),
		DeviceY:            uint32(c.Uint("y")),
		WindowOriginX:      w.X,
		WindowOriginY:      w.Y,
		WindowWidth:        w.Width,
		WindowHeight:       w.Height,
		DeviceScreenWidth:  screen.Width,
		DeviceScreenHeight: screen.Height,
		TitleBarHeight:     &tb,
	}, nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (geometry.DeviceScreen, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.DeviceScreen{}, fmt.Errorf("invalid screen size %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.ParseUint(strings.TrimSpace(w), 10, 32)
	if err != nil {
		return geometry.DeviceScreen{}, fmt.Errorf("invalid screen width %q: %w", w, err)
	}
	height, err := strconv.ParseUint(strings.TrimSpace(h), 10, 32)
	if err != nil {
		return geometry.DeviceScreen{}, fmt.Errorf("invalid screen height %q: %w", h, err)
	}
	return geometry.DeviceScreen{Width: uint32(width), Height: uint32(height)}, nil
}
