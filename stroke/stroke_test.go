// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
)

func line(x0, y0, x1, y1 float64, n int) []Point {
	pts := make([]Point, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		pts[i] = Point{X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t, Pressure: 0.5}
	}
	return pts
}

func TestParseRoundTrip(t *testing.T) {
	for s := StylePencil; s <= StyleCharcoalV2; s++ {
		got, err := ParseStyle(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStyle("crayon"); err == nil {
		t.Error("ParseStyle(crayon) succeeded")
	}
	for _, m := range []PenMode{ModePen, ModeEraseStroke} {
		got, err := ParsePenMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParsePenMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParsePenMode("lasso"); err == nil {
		t.Error("ParsePenMode(lasso) succeeded")
	}
}

func TestDefaultAttr(t *testing.T) {
	a := DefaultAttr()
	if a.Mode != ModePen || a.Style != StyleFountain || a.Width != DefaultWidth {
		t.Errorf("DefaultAttr() = %+v", a)
	}
	if a.Color != gg.Black {
		t.Errorf("Color = %+v, want black", a.Color)
	}
}

func TestRect(t *testing.T) {
	r := R(10, 10, 0, 0)
	if r.MinX != 0 || r.MaxY != 10 {
		t.Fatalf("R() = %+v, want normalized", r)
	}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 0, Y: 0}, true},
		{Point{X: 5, Y: 9.9}, true},
		{Point{X: 10, Y: 5}, false},
		{Point{X: -1, Y: 5}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if !r.Overlaps(R(9, 9, 20, 20)) {
		t.Error("Overlaps adjacent-inside = false")
	}
	if r.Overlaps(R(10, 0, 20, 10)) {
		t.Error("Overlaps touching edge = true")
	}
	if !R(3, 3, 3, 8).Empty() {
		t.Error("zero-width rect not empty")
	}
}

func TestHistoryErase(t *testing.T) {
	var h History
	attr := DefaultAttr()
	horizontal := &Stroke{Attr: attr, Points: line(0, 10, 100, 10, 5)}
	far := &Stroke{Attr: attr, Points: line(0, 80, 100, 80, 5)}
	dot := &Stroke{Attr: attr, Points: []Point{{X: 50, Y: 50}}}
	h.Add(horizontal)
	h.Add(far)
	h.Add(dot)
	if h.Points() != 11 {
		t.Fatalf("Points() = %d, want 11", h.Points())
	}

	tests := []struct {
		name   string
		eraser []Point
		width  float64
		want   int
	}{
		{"miss", line(0, 40, 30, 40, 3), 4, 0},
		{"crossing", line(50, 0, 50, 20, 2), 4, 1},
		{"touch dot", []Point{{X: 52, Y: 50}}, 2, 1},
		{"empty", nil, 4, 0},
	}
	for _, tt := range tests {
		if got := h.Erase(tt.eraser, tt.width); got != tt.want {
			t.Errorf("%s: Erase() = %d, want %d", tt.name, got, tt.want)
		}
	}
	if h.Len() != 1 || h.Strokes()[0] != far {
		t.Errorf("remaining strokes = %d, want only the far stroke", h.Len())
	}
	if h.Points() != 5 {
		t.Errorf("Points() = %d, want 5", h.Points())
	}
	h.Clear()
	if h.Len() != 0 || h.Points() != 0 {
		t.Error("Clear left strokes behind")
	}
}

func TestPaintDrawsInk(t *testing.T) {
	for _, style := range []Style{StylePencil, StyleFountain, StyleMarker, StyleCharcoal} {
		t.Run(style.String(), func(t *testing.T) {
			dc := gg.NewContext(64, 64)
			t.Cleanup(func() { _ = dc.Close() })
			dc.ClearWithColor(gg.White)

			attr := DefaultAttr()
			attr.Style = style
			attr.Width = 6
			s := New(attr)
			s.Add(line(8, 32, 56, 32, 8)...)
			if err := Paint(dc, s); err != nil {
				t.Fatalf("Paint() error = %v", err)
			}

			r, _, _, _ := dc.Image().At(32, 32).RGBA()
			if r > 0xC000 {
				t.Errorf("pixel on stroke is too light: r=%#x", r)
			}
			r, _, _, _ = dc.Image().At(32, 4).RGBA()
			if r < 0xF000 {
				t.Errorf("pixel off stroke was painted: r=%#x", r)
			}
		})
	}
}

func TestPaintSinglePointAndNil(t *testing.T) {
	if err := PaintPoints(nil, DefaultAttr(), nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("PaintPoints(nil) error = %v, want ErrNilContext", err)
	}
	dc := gg.NewContext(16, 16)
	t.Cleanup(func() { _ = dc.Close() })
	dc.ClearWithColor(gg.White)
	if err := PaintPoints(dc, DefaultAttr(), []Point{{X: 8, Y: 8}}); err != nil {
		t.Fatalf("PaintPoints() error = %v", err)
	}
	if r, _, _, _ := dc.Image().At(8, 8).RGBA(); r > 0xC000 {
		t.Errorf("dot not painted: r=%#x", r)
	}
}
