// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package stroke models pen strokes and paints them with gg.
//
// A Stroke is an ordered list of points captured between pen-down and
// pen-up, together with the attributes in effect at pen-down. History keeps
// strokes in drawing order and supports whole-stroke erasing.
package stroke

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Point is one sampled pen position. Pressure is normalized to [0, 1];
// zero means the device did not report pressure.
type Point struct {
	X, Y     float64
	Pressure float64
}

// PenMode selects what a stroke does.
type PenMode int

const (
	// ModePen adds strokes.
	ModePen PenMode = iota
	// ModeEraseStroke removes whole strokes that the pen touches.
	ModeEraseStroke
)

// String returns the mode name.
func (m PenMode) String() string {
	switch m {
	case ModePen:
		return "pen"
	case ModeEraseStroke:
		return "erase-stroke"
	default:
		return fmt.Sprintf("PenMode(%d)", int(m))
	}
}

// ParsePenMode parses the String form of a mode.
func ParsePenMode(s string) (PenMode, error) {
	switch s {
	case "pen", "":
		return ModePen, nil
	case "erase-stroke", "erase":
		return ModeEraseStroke, nil
	}
	return 0, fmt.Errorf("stroke: unknown pen mode %q", s)
}

// Style is the brush used to paint a stroke.
type Style int

const (
	StylePencil Style = iota
	StyleFountain
	StyleMarker
	StyleNeoBrush
	StyleCharcoal
	StyleDash
	StyleCharcoalV2
)

var styleNames = [...]string{
	StylePencil:     "pencil",
	StyleFountain:   "fountain",
	StyleMarker:     "marker",
	StyleNeoBrush:   "neo-brush",
	StyleCharcoal:   "charcoal",
	StyleDash:       "dash",
	StyleCharcoalV2: "charcoal-v2",
}

// String returns the style name.
func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle parses the String form of a style.
func ParseStyle(s string) (Style, error) {
	for i, name := range styleNames {
		if name == s {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("stroke: unknown style %q", s)
}

// Default attribute values.
const (
	DefaultWidth = 4.0
	DefaultStyle = StyleFountain
)

// Attr holds the attributes a stroke is drawn with.
type Attr struct {
	Mode  PenMode
	Style Style
	Width float64
	Color gg.RGBA
}

// DefaultAttr returns a black fountain pen of DefaultWidth.
func DefaultAttr() Attr {
	return Attr{Mode: ModePen, Style: DefaultStyle, Width: DefaultWidth, Color: gg.Black}
}

// Stroke is one pen-down to pen-up gesture.
type Stroke struct {
	Attr   Attr
	Points []Point
}

// New creates an empty stroke with a copy of attr.
func New(attr Attr) *Stroke {
	return &Stroke{Attr: attr}
}

// Add appends points to the stroke.
func (s *Stroke) Add(pts ...Point) {
	s.Points = append(s.Points, pts...)
}

// Len returns the number of points.
func (s *Stroke) Len() int { return len(s.Points) }

// Bounds returns the bounding box of the stroke, padded by half its width.
func (s *Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range s.Points {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r.Inset(-s.Attr.Width / 2)
}

// Rect is an axis-aligned rectangle. Max is exclusive for Contains.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// R returns the rectangle with corners (x0, y0) and (x1, y1).
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		MinX: math.Min(x0, x1), MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1), MaxY: math.Max(y0, y1),
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// Inset shrinks r by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}
