package penpad

import (
	"context"

	"github.com/gogpu/penpad/stroke"
)

// BeginStroke starts a stroke at pt. It reports false, and the stroke is
// ignored, when the surface is not enabled, the pen is disabled, or pt
// lies in an exclusion region.
//
// Finger touch is forced off until EndStroke.
func (p *Pad) BeginStroke(ctx context.Context, pt stroke.Point) bool {
	attr := p.Attr()
	pen := p.penEnabled.Current()

	p.mu.Lock()
	if !p.enabled || !pen || p.excludedLocked(pt) {
		enabled := p.enabled
		p.mu.Unlock()
		p.logger().Debug("penpad: stroke ignored", "enabled", enabled, "pen", pen)
		return false
	}
	if p.current != nil {
		// Missing EndStroke; the finger override is already in place.
		if p.finishLocked() > 0 {
			_ = p.repaintLocked(ctx)
		}
	} else {
		v, set := p.fingerEnabled.System()
		p.finger = fingerState{value: v, set: set}
	}
	p.current = stroke.New(attr)
	p.current.Add(pt)
	p.mu.Unlock()

	p.opts.observer.StrokePoints(ctx, 1)
	p.fingerEnabled.SetSystem(ctx, false)
	return true
}

// AddPoints extends the current stroke. Points in exclusion regions are
// dropped. In pen mode the new segment is painted right away.
func (p *Pad) AddPoints(ctx context.Context, pts ...stroke.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.current
	if s == nil {
		return
	}

	last := s.Points[len(s.Points)-1]
	added := 0
	for _, pt := range pts {
		if p.excludedLocked(pt) {
			continue
		}
		s.Add(pt)
		added++
	}
	if added == 0 {
		return
	}
	p.opts.observer.StrokePoints(ctx, added)

	if s.Attr.Mode != stroke.ModePen || p.target == nil {
		return
	}
	seg := append([]stroke.Point{last}, s.Points[len(s.Points)-added:]...)
	if err := stroke.PaintPoints(p.target.Context(), s.Attr, seg); err != nil {
		p.logger().Warn("penpad: paint failed", "err", err)
		return
	}
	_ = p.presentLocked()
}

// EndStroke finishes the current stroke. A pen stroke joins the history;
// an erase stroke removes every stroke it touches and repaints.
func (p *Pad) EndStroke(ctx context.Context) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	finger := p.finger
	if s := p.current; s.Attr.Mode == stroke.ModePen && s.Len() == 1 && p.target != nil {
		if err := stroke.PaintPoints(p.target.Context(), s.Attr, s.Points); err == nil {
			_ = p.presentLocked()
		}
	}
	removed := p.finishLocked()
	if removed > 0 {
		if err := p.repaintLocked(ctx); err != nil {
			p.logger().Warn("penpad: repaint after erase failed", "err", err)
		}
	}
	p.mu.Unlock()

	p.restoreFinger(ctx, finger)
}

// finishLocked commits the current stroke and returns the number of
// strokes it erased.
func (p *Pad) finishLocked() int {
	s := p.current
	p.current = nil
	switch s.Attr.Mode {
	case stroke.ModeEraseStroke:
		n := p.history.Erase(s.Points, s.Attr.Width)
		p.logger().Debug("penpad: erase stroke", "points", s.Len(), "removed", n)
		return n
	default:
		p.history.Add(s)
		p.logger().Debug("penpad: stroke", "points", s.Len(), "style", s.Attr.Style)
		return 0
	}
}

// abortStrokeLocked drops the current stroke without committing it.
func (p *Pad) abortStrokeLocked() (fingerState, bool) {
	if p.current == nil {
		return fingerState{}, false
	}
	p.current = nil
	return p.finger, true
}

func (p *Pad) restoreFinger(ctx context.Context, f fingerState) {
	if f.set {
		p.fingerEnabled.SetSystem(ctx, f.value)
		return
	}
	p.fingerEnabled.ClearSystem(ctx)
}

func (p *Pad) excludedLocked(pt stroke.Point) bool {
	for _, r := range p.exclusions {
		if r.Contains(pt) {
			return true
		}
	}
	return false
}
