// Package device provides Android device access via ADB.
package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/geometry"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

// DumpPath is where uiautomator writes the hierarchy on the device.
const DumpPath = "/sdcard/ui_dump.xml"

// Runner executes a host command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// AndroidDevice manages an Android device connection via ADB.
type AndroidDevice struct {
	serial  string
	adbPath string
	run     Runner
}

var (
	_ core.DumpSource    = (*AndroidDevice)(nil)
	_ core.Screenshotter = (*AndroidDevice)(nil)
	_ core.InputInjector = (*AndroidDevice)(nil)
)

// Entry is one line of `adb devices -l`.
type Entry struct {
	Serial string
	State  string
	Model  string
}

// NoDevicesError is returned when no device is in the "device" state.
type NoDevicesError struct {
	Message     string
	Suggestions []string
}

func (e *NoDevicesError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		sb.WriteString("\n\nOptions:\n")
		for i, s := range e.Suggestions {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, s)
		}
	}
	return sb.String()
}

// New creates an AndroidDevice for the given serial.
// If serial is empty, it auto-detects the connected device.
// adbPath overrides the binary lookup when set.
func New(ctx context.Context, serial, adbPath string) (*AndroidDevice, error) {
	path, err := findADB(adbPath)
	if err != nil {
		return nil, err
	}
	return newDevice(ctx, serial, path, execRunner)
}

// List returns every device adb knows about, in any state.
func List(ctx context.Context, adbPath string) ([]Entry, error) {
	path, err := findADB(adbPath)
	if err != nil {
		return nil, err
	}
	return list(ctx, &AndroidDevice{adbPath: path, run: execRunner})
}

func list(ctx context.Context, d *AndroidDevice) ([]Entry, error) {
	out, err := d.adb(ctx, "devices", "-l")
	if err != nil {
		return nil, err
	}
	return ParseDevices(out), nil
}

func newDevice(ctx context.Context, serial, adbPath string, run Runner) (*AndroidDevice, error) {
	d := &AndroidDevice{serial: serial, adbPath: adbPath, run: run}
	if serial != "" {
		return d, nil
	}

	entries, err := list(ctx, d)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.State == "device" {
			d.serial = e.Serial
			logger.L().Debug("auto-detected device", zap.String("serial", e.Serial), zap.String("model", e.Model))
			return d, nil
		}
	}
	return nil, &NoDevicesError{
		Message: "No Android devices or emulators found",
		Suggestions: []string{
			"Connect a physical device via USB and enable USB debugging",
			"Start an emulator: emulator -avd <name>",
			"Pass --device <serial> if the device is listed as unauthorized",
		},
	}
}

// Serial returns the device serial number.
func (d *AndroidDevice) Serial() string {
	return d.serial
}

// Shell executes a shell command on the device.
func (d *AndroidDevice) Shell(ctx context.Context, args ...string) (string, error) {
	return d.adb(ctx, append([]string{"shell"}, args...)...)
}

// DumpUI writes the uiautomator hierarchy on the device and reads it back.
func (d *AndroidDevice) DumpUI(ctx context.Context) (string, error) {
	if _, err := d.Shell(ctx, "uiautomator", "dump", DumpPath); err != nil {
		return "", err
	}
	out, err := d.Shell(ctx, "cat", DumpPath)
	if err != nil {
		return "", err
	}
	logger.L().Debug("ui dump read", zap.String("serial", d.serial), zap.Int("bytes", len(out)))
	return out, nil
}

// Screenshot returns the current screen as PNG bytes.
func (d *AndroidDevice) Screenshot(ctx context.Context) ([]byte, error) {
	return d.adbRaw(ctx, "exec-out", "screencap", "-p")
}

// Tap taps at device pixel coordinates.
func (d *AndroidDevice) Tap(ctx context.Context, x, y int) error {
	_, err := d.Shell(ctx, "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// Swipe swipes between two device pixel coordinates.
func (d *AndroidDevice) Swipe(ctx context.Context, x1, y1, x2, y2 int) error {
	_, err := d.Shell(ctx, "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2))
	return err
}

// ScreenSize returns the display size reported by `wm size`.
func (d *AndroidDevice) ScreenSize(ctx context.Context) (geometry.DeviceScreen, error) {
	out, err := d.Shell(ctx, "wm", "size")
	if err != nil {
		return geometry.DeviceScreen{}, err
	}
	return ParseScreenSize(out)
}

// Info returns platform details for reporting.
func (d *AndroidDevice) Info(ctx context.Context) core.PlatformInfo {
	info := core.PlatformInfo{Platform: core.PlatformAndroid, DeviceID: d.serial}
	if qemu, err := d.Shell(ctx, "getprop", "ro.kernel.qemu"); err == nil {
		info.IsSimulator = strings.TrimSpace(qemu) == "1"
	}
	if s, err := d.ScreenSize(ctx); err == nil {
		info.ScreenWidth = int(s.Width)
		info.ScreenHeight = int(s.Height)
	}
	return info
}

// ParseDevices parses `adb devices -l` output.
func ParseDevices(out string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		e := Entry{Serial: parts[0], State: parts[1]}
		for _, p := range parts[2:] {
			if m, ok := strings.CutPrefix(p, "model:"); ok {
				e.Model = m
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// ParseScreenSize parses `wm size` output. An override size wins over
// the physical size since that is what the display renders at.
func ParseScreenSize(out string) (geometry.DeviceScreen, error) {
	var physical, override geometry.DeviceScreen
	for _, line := range strings.Split(out, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok || !strings.HasSuffix(strings.TrimSpace(label), "size") {
			continue
		}
		w, h, ok := strings.Cut(strings.TrimSpace(value), "x")
		if !ok {
			continue
		}
		width, err1 := strconv.ParseUint(w, 10, 32)
		height, err2 := strconv.ParseUint(h, 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		s := geometry.DeviceScreen{Width: uint32(width), Height: uint32(height)}
		if strings.HasPrefix(strings.TrimSpace(label), "Override") {
			override = s
		} else {
			physical = s
		}
	}
	if override.Width > 0 && override.Height > 0 {
		return override, nil
	}
	if physical.Width > 0 && physical.Height > 0 {
		return physical, nil
	}
	return geometry.DeviceScreen{}, fmt.Errorf("unrecognized wm size output: %q", strings.TrimSpace(out))
}

// adb executes an ADB command.
func (d *AndroidDevice) adb(ctx context.Context, args ...string) (string, error) {
	out, err := d.adbRaw(ctx, args...)
	return string(out), err
}

func (d *AndroidDevice) adbRaw(ctx context.Context, args ...string) ([]byte, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.serial != "" {
		cmdArgs = append(cmdArgs, "-s", d.serial)
	}
	cmdArgs = append(cmdArgs, args...)

	out, err := d.run(ctx, d.adbPath, cmdArgs...)
	if err != nil {
		if isDisconnect(err.Error()) {
			return nil, core.ErrDeviceDisconnected.WithCause(err)
		}
		return nil, fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

func isDisconnect(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "device offline") ||
		strings.Contains(msg, "not found") && strings.Contains(msg, "device")
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- adb path comes from config or PATH
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return nil, fmt.Errorf("%w: %s", err, errMsg)
	}
	return stdout.Bytes(), nil
}

// findADB locates the ADB binary.
func findADB(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", core.ErrToolNotFound.WithMessage(fmt.Sprintf("adb not found at %s", configured)).WithCause(err)
		}
		return configured, nil
	}

	// Try PATH first
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}

	// Then the usual SDK locations
	for _, p := range sdkCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", core.ErrToolNotFound.WithMessage("adb not found in PATH; ensure Android SDK platform-tools are installed")
}

func sdkCandidates() []string {
	var paths []string
	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		if v := os.Getenv(env); v != "" {
			paths = append(paths, filepath.Join(v, "platform-tools", "adb"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, "Library", "Android", "sdk", "platform-tools", "adb"),
			filepath.Join(home, "Android", "Sdk", "platform-tools", "adb"),
		)
	}
	return append(paths, "/usr/local/bin/adb", "/opt/homebrew/bin/adb")
}

// IsNoDevices reports whether err is a NoDevicesError.
func IsNoDevices(err error) bool {
	var nd *NoDevicesError
	return errors.As(err, &nd)
}
