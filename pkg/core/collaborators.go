package core

import (
	"context"
)

// DumpSource retrieves the raw UI hierarchy dump of a device.
// Implementations: ADB uiautomator dump, canned files in tests.
// The matching core only ever sees the returned text.
type DumpSource interface {
	DumpUI(ctx context.Context) (string, error)
}

// Screenshotter captures the current screen as PNG.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// InputInjector issues raw input at a point already expressed in the
// injector's own coordinate space (device pixels for ADB, host pixels
// for a simulator window).
type InputInjector interface {
	Tap(ctx context.Context, x, y int) error
	Swipe(ctx context.Context, x1, y1, x2, y2 int) error
}

// PlatformInfo contains device and platform details
type PlatformInfo struct {
	Platform     string `json:"platform"`               // ios, android
	DeviceID     string `json:"deviceId"`               // Unique device identifier
	IsSimulator  bool   `json:"isSimulator"`            // Simulator/emulator vs real device
	ScreenWidth  int    `json:"screenWidth,omitempty"`  // Screen width in pixels
	ScreenHeight int    `json:"screenHeight,omitempty"` // Screen height in pixels
}

// Platform values
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)
