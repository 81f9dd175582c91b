// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import "math"

// History is the ordered list of strokes on a surface. It is not safe for
// concurrent use.
type History struct {
	strokes []*Stroke
	points  int
}

// Add appends s.
func (h *History) Add(s *Stroke) {
	h.strokes = append(h.strokes, s)
	h.points += s.Len()
}

// Strokes returns the strokes in drawing order. The slice must not be
// modified.
func (h *History) Strokes() []*Stroke { return h.strokes }

// Len returns the number of strokes.
func (h *History) Len() int { return len(h.strokes) }

// Points returns the number of points across all strokes added with Add.
func (h *History) Points() int { return h.points }

// Clear removes every stroke.
func (h *History) Clear() {
	h.strokes = nil
	h.points = 0
}

// Erase removes every stroke that the eraser path touches and returns the
// number removed. The eraser is a polyline of the given width.
func (h *History) Erase(eraser []Point, width float64) int {
	if len(eraser) == 0 || len(h.strokes) == 0 {
		return 0
	}
	er := (&Stroke{Attr: Attr{Width: width}, Points: eraser}).Bounds()

	kept := h.strokes[:0]
	removed := 0
	for _, s := range h.strokes {
		if s.Bounds().Overlaps(er) && hits(s, eraser, width) {
			removed++
			h.points -= s.Len()
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(h.strokes); i++ {
		h.strokes[i] = nil
	}
	h.strokes = kept
	return removed
}

// hits reports whether any segment of s comes within the combined half
// widths of any segment of the eraser.
func hits(s *Stroke, eraser []Point, width float64) bool {
	reach := (s.Attr.Width + width) / 2
	for _, a := range segments(s.Points) {
		for _, b := range segments(eraser) {
			if segmentDistance(a[0], a[1], b[0], b[1]) <= reach {
				return true
			}
		}
	}
	return false
}

// segments returns consecutive point pairs. A single point yields one
// degenerate segment.
func segments(pts []Point) [][2]Point {
	if len(pts) == 1 {
		return [][2]Point{{pts[0], pts[0]}}
	}
	out := make([][2]Point, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		out = append(out, [2]Point{pts[i-1], pts[i]})
	}
	return out
}

func segmentDistance(a0, a1, b0, b1 Point) float64 {
	if segmentsIntersect(a0, a1, b0, b1) {
		return 0
	}
	return math.Min(
		math.Min(pointSegment(a0, b0, b1), pointSegment(a1, b0, b1)),
		math.Min(pointSegment(b0, a0, a1), pointSegment(b1, a0, a1)),
	)
}

func pointSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentsIntersect(a0, a1, b0, b1 Point) bool {
	d1 := cross(b0, b1, a0)
	d2 := cross(b0, b1, a1)
	d3 := cross(a0, a1, b0)
	d4 := cross(a0, a1, b1)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
