// Package simulator drives a booted iOS Simulator from the macOS host:
// simctl for screenshots, AppleScript for the window frame and cliclick
// for input.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // screenshot decoding
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/geometry"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

// BootedUDID lets simctl pick the booted simulator.
const BootedUDID = "booted"

// Runner executes a host command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// SimulatorDevice represents an available iOS simulator from simctl list.
type SimulatorDevice struct {
	Name        string // e.g., "iPhone 15 Pro"
	UDID        string // e.g., "A1B2C3D4-E5F6-..."
	Runtime     string // e.g., "com.apple.CoreSimulator.SimRuntime.iOS-17-2"
	OSVersion   string // e.g., "17.2" (extracted from Runtime)
	State       string // "Shutdown", "Booted", etc.
	IsAvailable bool
}

// simctlDevicesOutput represents the JSON output from xcrun simctl list devices.
type simctlDevicesOutput struct {
	Devices map[string][]simctlDevice `json:"devices"`
}

type simctlDevice struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
}

// Simulator is one simulator plus the host window showing it.
type Simulator struct {
	UDID     string
	TitleBar int32
	run      Runner
}

var (
	_ core.Screenshotter     = (*Simulator)(nil)
	_ core.InputInjector     = (*Simulator)(nil)
	_ geometry.WindowLocator = (*Simulator)(nil)
)

// New returns a Simulator for udid ("" means the booted one).
func New(udid string, titleBar int32) (*Simulator, error) {
	if _, err := exec.LookPath("xcrun"); err != nil {
		return nil, core.ErrToolNotFound.WithMessage("xcrun not found; install Xcode Command Line Tools: xcode-select --install")
	}
	if udid == "" {
		udid = BootedUDID
	}
	return &Simulator{UDID: udid, TitleBar: titleBar, run: execRunner}, nil
}

// ListSimulators returns all available iOS simulators.
func (s *Simulator) ListSimulators(ctx context.Context) ([]SimulatorDevice, error) {
	out, err := s.run(ctx, "xcrun", "simctl", "list", "devices", "available", "-j")
	if err != nil {
		return nil, fmt.Errorf("failed to list simulators: %w", err)
	}
	sims, err := ParseSimctlDevices(out)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d available simulators", len(sims))
	return sims, nil
}

// ParseSimctlDevices parses `simctl list devices -j` output.
func ParseSimctlDevices(data []byte) ([]SimulatorDevice, error) {
	var parsed simctlDevicesOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse simctl output: %w", err)
	}

	var sims []SimulatorDevice
	for runtime, devices := range parsed.Devices {
		osVersion := extractOSVersion(runtime)
		for _, dev := range devices {
			if !dev.IsAvailable {
				continue
			}
			sims = append(sims, SimulatorDevice{
				Name:        dev.Name,
				UDID:        dev.UDID,
				Runtime:     runtime,
				OSVersion:   osVersion,
				State:       dev.State,
				IsAvailable: dev.IsAvailable,
			})
		}
	}
	return sims, nil
}

// Screenshot captures the simulator screen as PNG.
func (s *Simulator) Screenshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "screenmatch-sim")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "screen.png")
	if _, err := s.run(ctx, "xcrun", "simctl", "io", s.UDID, "screenshot", path); err != nil {
		return nil, fmt.Errorf("simctl screenshot: %w", err)
	}
	return os.ReadFile(path) //#nosec G304 -- path created above
}

// ScreenSize returns the device screen in pixels, read from a screenshot.
func (s *Simulator) ScreenSize(ctx context.Context) (geometry.DeviceScreen, error) {
	png, err := s.Screenshot(ctx)
	if err != nil {
		return geometry.DeviceScreen{}, err
	}
	return ImageSize(png)
}

// ImageSize decodes only the image header.
func ImageSize(data []byte) (geometry.DeviceScreen, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return geometry.DeviceScreen{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return geometry.DeviceScreen{Width: uint32(cfg.Width), Height: uint32(cfg.Height)}, nil
}

// Mapper reads the window frame and device screen and binds them.
func (s *Simulator) Mapper(ctx context.Context) (*geometry.Mapper, error) {
	w, err := s.Window(ctx)
	if err != nil {
		return nil, err
	}
	screen, err := s.ScreenSize(ctx)
	if err != nil {
		return nil, err
	}
	m, err := geometry.NewMapper(w, screen)
	if err != nil {
		return nil, err
	}
	m.TitleBar = s.TitleBar
	return m, nil
}

// TapDevice taps a point given in device pixels.
func (s *Simulator) TapDevice(ctx context.Context, p geometry.Point) (geometry.HostPoint, error) {
	m, err := s.Mapper(ctx)
	if err != nil {
		return geometry.HostPoint{}, err
	}
	hp, err := m.Map(p)
	if err != nil {
		return geometry.HostPoint{}, err
	}
	return hp, s.Tap(ctx, int(hp.X), int(hp.Y))
}

// SwipeDevice drags between two points given in device pixels.
func (s *Simulator) SwipeDevice(ctx context.Context, from, to geometry.Point) error {
	m, err := s.Mapper(ctx)
	if err != nil {
		return err
	}
	start, end, err := m.MapSwipe(from, to)
	if err != nil {
		return err
	}
	return s.Swipe(ctx, int(start.X), int(start.Y), int(end.X), int(end.Y))
}

// extractOSVersion extracts version from runtime string.
// e.g., "com.apple.CoreSimulator.SimRuntime.iOS-17-2" → "17.2"
func extractOSVersion(runtime string) string {
	// Find "iOS-" prefix and extract version
	idx := strings.LastIndex(runtime, "iOS-")
	if idx == -1 {
		// Try other platforms (watchOS, tvOS, visionOS)
		for _, prefix := range []string{"watchOS-", "tvOS-", "xrOS-"} {
			idx = strings.LastIndex(runtime, prefix)
			if idx != -1 {
				version := runtime[idx+len(prefix):]
				return strings.ReplaceAll(version, "-", ".")
			}
		}
		return ""
	}
	version := runtime[idx+4:] // skip "iOS-"
	return strings.ReplaceAll(version, "-", ".")
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- fixed tool names
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}
