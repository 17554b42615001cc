// Package geometry maps device logical coordinates to host pixel
// coordinates of a windowed simulator.
//
// The mapping scales independently on each axis and adds the window
// origin plus a fixed title bar height. It assumes an unrotated window and
// a 28px title bar; this is an approximation, not a per-platform measurement.
package geometry

import (
	"context"
	"fmt"
	"math"

	"github.com/devicelab-dev/screenmatch/pkg/core"
)

// DefaultTitleBarHeight is the assumed macOS window title bar height.
const DefaultTitleBarHeight int32 = 28

// WindowGeometry is a host window's position and size in physical pixels.
type WindowGeometry struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// DeviceScreen is the emulated device's logical resolution.
type DeviceScreen struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Point is a device logical coordinate.
type Point struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// HostPoint is a host screen pixel coordinate.
type HostPoint struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// WindowLocator reports the current geometry of a simulator window.
type WindowLocator interface {
	Window(ctx context.Context) (WindowGeometry, error)
}

// Validate rejects window or screen sizes that would divide by zero or
// produce a negative scale.
func Validate(w WindowGeometry, s DeviceScreen) error {
	if s.Width == 0 || s.Height == 0 {
		return core.ErrGeometryUnderflow.WithMessage(
			fmt.Sprintf("device screen has zero size: %dx%d", s.Width, s.Height))
	}
	if w.Width <= 0 || w.Height <= 0 {
		return core.ErrGeometryUnderflow.WithMessage(
			fmt.Sprintf("window has no area: %dx%d", w.Width, w.Height))
	}
	return nil
}

// ToHostPixels converts p from device space to host pixels.
func ToHostPixels(p Point, w WindowGeometry, s DeviceScreen, titleBar int32) (HostPoint, error) {
	if err := Validate(w, s); err != nil {
		return HostPoint{}, err
	}

	scaleX := float64(w.Width) / float64(s.Width)
	scaleY := float64(w.Height) / float64(s.Height)

	x := float64(w.X) + math.Round(float64(p.X)*scaleX)
	y := float64(w.Y) + float64(titleBar) + math.Round(float64(p.Y)*scaleY)
	if !inInt32(x) || !inInt32(y) {
		return HostPoint{}, core.ErrGeometryOverflow.WithMessage(
			fmt.Sprintf("device point (%d, %d) maps to (%.0f, %.0f)", p.X, p.Y, x, y))
	}
	return HostPoint{X: int32(x), Y: int32(y)}, nil
}

func inInt32(v float64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// Mapper binds a window and device screen for repeated conversions.
type Mapper struct {
	Window   WindowGeometry
	Screen   DeviceScreen
	TitleBar int32
}

// NewMapper returns a Mapper using DefaultTitleBarHeight.
func NewMapper(w WindowGeometry, s DeviceScreen) (*Mapper, error) {
	if err := Validate(w, s); err != nil {
		return nil, err
	}
	return &Mapper{Window: w, Screen: s, TitleBar: DefaultTitleBarHeight}, nil
}

// Map converts one point.
func (m *Mapper) Map(p Point) (HostPoint, error) {
	return ToHostPixels(p, m.Window, m.Screen, m.TitleBar)
}

// MapSwipe converts both ends of a drag.
func (m *Mapper) MapSwipe(from, to Point) (HostPoint, HostPoint, error) {
	start, err := m.Map(from)
	if err != nil {
		return HostPoint{}, HostPoint{}, err
	}
	end, err := m.Map(to)
	if err != nil {
		return HostPoint{}, HostPoint{}, err
	}
	return start, end, nil
}
