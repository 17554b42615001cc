// Package hierarchy extracts UI elements from raw hierarchy dump text.
//
// Dumps from devices and simulators are not always well-formed, so the
// extractor scans node fragments one at a time instead of parsing a tree.
// A broken node is dropped on its own and never aborts the rest of the dump.
package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds is an axis-aligned rectangle in device pixels, "[x1,y1][x2,y2]".
type Bounds struct {
	X1 uint32 `json:"x1"`
	Y1 uint32 `json:"y1"`
	X2 uint32 `json:"x2"`
	Y2 uint32 `json:"y2"`
}

// Center returns the integer midpoint of the bounds (floor division).
func (b Bounds) Center() (uint32, uint32) {
	return midpoint(b.X1, b.X2), midpoint(b.Y1, b.Y2)
}

func midpoint(a, b uint32) uint32 {
	return uint32((uint64(a) + uint64(b)) / 2)
}

// Width returns the horizontal extent, 0 for inverted bounds.
func (b Bounds) Width() uint32 {
	if b.X2 <= b.X1 {
		return 0
	}
	return b.X2 - b.X1
}

// Height returns the vertical extent, 0 for inverted bounds.
func (b Bounds) Height() uint32 {
	if b.Y2 <= b.Y1 {
		return 0
	}
	return b.Y2 - b.Y1
}

// Empty reports whether the rectangle has no area.
func (b Bounds) Empty() bool {
	return b.Width() == 0 || b.Height() == 0
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(x, y uint32) bool {
	return x >= b.X1 && x < b.X2 && y >= b.Y1 && y < b.Y2
}

// String formats the bounds the way dumps write them.
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.X1, b.Y1, b.X2, b.Y2)
}

// ParseBounds parses "[x1,y1][x2,y2]". It returns false for anything else,
// including negative or out-of-range coordinates.
func ParseBounds(s string) (Bounds, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return Bounds{}, false
	}
	s = strings.ReplaceAll(s, "][", ",")
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, false
	}

	var v [4]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return Bounds{}, false
		}
		v[i] = uint32(n)
	}

	return Bounds{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, true
}

// Element is one on-screen node that can be matched against a query.
type Element struct {
	Text        string `json:"text"`
	Description string `json:"description"` // content-desc / accessibility label
	ClassName   string `json:"class"`
	Bounds      Bounds `json:"bounds"`
	Clickable   bool   `json:"clickable"`
}

// Label returns the text, or the accessibility description when text is empty.
func (e Element) Label() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Description
}
