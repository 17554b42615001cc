package hierarchy

import (
	"testing"
)

func TestParseBounds(t *testing.T) {
	tests := []struct {
		input string
		want  Bounds
		ok    bool
	}{
		{"[0,0][100,200]", Bounds{0, 0, 100, 200}, true},
		{"[50,100][150,300]", Bounds{50, 100, 150, 300}, true},
		{" [1, 2][3, 4] ", Bounds{1, 2, 3, 4}, true},
		{"invalid", Bounds{}, false},
		{"[0,0]", Bounds{}, false},
		{"[a,0][1,1]", Bounds{}, false},
		{"0,0,1,1", Bounds{}, false},
		{"[0,0][4294967296,1]", Bounds{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseBounds(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseBounds(%q) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBounds_Center(t *testing.T) {
	tests := []struct {
		b      Bounds
		wx, wy uint32
	}{
		{Bounds{100, 200, 140, 240}, 120, 220},
		{Bounds{50, 500, 250, 560}, 150, 530},
		{Bounds{100, 200, 141, 241}, 120, 220},
		{Bounds{4294967290, 0, 4294967295, 1}, 4294967292, 0},
	}

	for _, tt := range tests {
		x, y := tt.b.Center()
		if x != tt.wx || y != tt.wy {
			t.Errorf("%s.Center() = (%d, %d), want (%d, %d)", tt.b, x, y, tt.wx, tt.wy)
		}
	}
}

func TestBounds_Extent(t *testing.T) {
	b := Bounds{10, 20, 110, 70}
	if b.Width() != 100 || b.Height() != 50 {
		t.Errorf("extent = %dx%d, want 100x50", b.Width(), b.Height())
	}
	if b.Empty() {
		t.Error("non-degenerate bounds reported empty")
	}
	if !(Bounds{10, 20, 10, 70}).Empty() {
		t.Error("zero width not empty")
	}
	if !(Bounds{10, 20, 5, 70}).Empty() {
		t.Error("inverted bounds not empty")
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{10, 10, 20, 20}
	if !b.Contains(10, 10) || !b.Contains(19, 19) {
		t.Error("expected inclusive top-left and interior points")
	}
	if b.Contains(20, 15) || b.Contains(15, 20) {
		t.Error("right and bottom edges are exclusive")
	}
}

func TestBounds_String(t *testing.T) {
	if got := (Bounds{1, 2, 3, 4}).String(); got != "[1,2][3,4]" {
		t.Errorf("String() = %q", got)
	}
}

func TestElement_Label(t *testing.T) {
	if got := (Element{Text: "OK", Description: "confirm"}).Label(); got != "OK" {
		t.Errorf("Label() = %q, want text", got)
	}
	if got := (Element{Description: "confirm"}).Label(); got != "confirm" {
		t.Errorf("Label() = %q, want description", got)
	}
}
