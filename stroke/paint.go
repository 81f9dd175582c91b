// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"errors"

	"github.com/gogpu/gg"
)

// ErrNilContext is returned when painting without a drawing context.
var ErrNilContext = errors.New("stroke: nil context")

// minPressureScale keeps light strokes visible.
const minPressureScale = 0.35

// Paint draws s onto dc. Styles without a dedicated brush are drawn with
// the fountain brush.
func Paint(dc *gg.Context, s *Stroke) error {
	return PaintPoints(dc, s.Attr, s.Points)
}

// PaintPoints draws points with attr onto dc. It is used both for whole
// strokes and for the points of a stroke still in progress.
func PaintPoints(dc *gg.Context, attr Attr, pts []Point) error {
	if dc == nil {
		return ErrNilContext
	}
	if len(pts) == 0 {
		return nil
	}

	dc.ClearPath()
	dc.SetRGBA(attr.Color.R, attr.Color.G, attr.Color.B, attr.Color.A)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	if len(pts) == 1 {
		dc.DrawCircle(pts[0].X, pts[0].Y, attr.Width/2)
		return dc.Fill()
	}

	switch attr.Style {
	case StylePencil:
		return pencil(dc, attr, pts)
	case StyleMarker:
		return marker(dc, attr, pts)
	case StyleDash:
		return dash(dc, attr, pts)
	default:
		return fountain(dc, attr, pts)
	}
}

// pencil draws a constant-width quadratic path through the points.
func pencil(dc *gg.Context, attr Attr, pts []Point) error {
	dc.SetLineWidth(attr.Width)
	prev := pts[0]
	dc.MoveTo(prev.X, prev.Y)
	for _, p := range pts[1:] {
		dc.QuadraticTo(prev.X, prev.Y, (prev.X+p.X)/2, (prev.Y+p.Y)/2)
		prev = p
	}
	dc.LineTo(prev.X, prev.Y)
	return dc.Stroke()
}

// fountain varies the width of each segment with the average pressure of
// its end points.
func fountain(dc *gg.Context, attr Attr, pts []Point) error {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dc.SetLineWidth(attr.Width * pressureScale((a.Pressure+b.Pressure)/2))
		dc.MoveTo(a.X, a.Y)
		dc.LineTo(b.X, b.Y)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// marker draws a wide translucent polyline with square ends.
func marker(dc *gg.Context, attr Attr, pts []Point) error {
	dc.SetRGBA(attr.Color.R, attr.Color.G, attr.Color.B, attr.Color.A*0.5)
	dc.SetLineCap(gg.LineCapSquare)
	dc.SetLineWidth(attr.Width * 3)
	polyline(dc, pts)
	return dc.Stroke()
}

func dash(dc *gg.Context, attr Attr, pts []Point) error {
	dc.SetLineWidth(attr.Width)
	dc.SetDash(attr.Width*3, attr.Width*2)
	defer dc.ClearDash()
	polyline(dc, pts)
	return dc.Stroke()
}

func polyline(dc *gg.Context, pts []Point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

func pressureScale(p float64) float64 {
	if p <= 0 {
		return 1
	}
	if p > 1 {
		p = 1
	}
	return minPressureScale + (1-minPressureScale)*p
}
