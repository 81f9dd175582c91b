package penpad

import (
	"context"
	"slices"
	"strconv"

	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/stroke"
)

// Bundle keys written by the Pad when the host saves its state.
const (
	BundleStrokes   = "strokes"
	BundleThumbnail = "thumbnail.png"
)

func (p *Pad) onStartup(s lifecycle.Started, saved lifecycle.Bundle) {
	keys := make([]string, 0, len(saved))
	for k := range saved {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	log := p.logger().With("session", s.Session())
	log.Debug("penpad: startup", "restored", keys)
	if v, ok := saved[BundleStrokes]; ok {
		if n, err := strconv.Atoi(string(v)); err == nil {
			log.Info("penpad: previous session had strokes", "strokes", n)
		}
	}
}

func (p *Pad) onEnabled(s lifecycle.Enabled) {
	w, h := s.Resource().Size()
	ctx := context.Background()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureTargetLocked(w, h); err != nil {
		p.logger().Warn("penpad: no drawing surface", "width", w, "height", h, "err", err)
	}
	p.enabled = true
	p.limit = stroke.R(0, 0, float64(w), float64(h))

	dev := p.opts.device
	dev.OpenRawDrawing(p.limit, slices.Clone(p.exclusions))
	p.rawOpen = true
	dev.SetStrokeStyle(p.Attr())
	dev.SetRawDrawingEnabled(p.penEnabled.Current())

	if p.target != nil {
		if err := p.repaintLocked(ctx); err != nil {
			p.logger().Warn("penpad: repaint failed", "err", err)
		}
	}
	p.logger().Debug("penpad: enabled", "width", w, "height", h)
}

func (p *Pad) ensureTargetLocked(w, h int) error {
	if p.target == nil {
		t, err := newTarget(p.opts.provider, w, h)
		if err != nil {
			return err
		}
		p.target = t
		return nil
	}
	return p.target.Resize(w, h)
}

func (p *Pad) onDisabled(lifecycle.Started) {
	p.mu.Lock()
	p.enabled = false
	if p.rawOpen {
		p.opts.device.CloseRawDrawing()
		p.rawOpen = false
	}
	finger, stroking := p.abortStrokeLocked()
	p.mu.Unlock()

	if stroking {
		p.restoreFinger(context.Background(), finger)
	}
	p.logger().Debug("penpad: disabled")
}

func (p *Pad) onShutdown(s lifecycle.Stopped) {
	p.mu.Lock()
	p.enabled = false
	if p.rawOpen {
		p.opts.device.CloseRawDrawing()
		p.rawOpen = false
	}
	finger, stroking := p.abortStrokeLocked()
	if p.target != nil {
		if err := p.target.Close(); err != nil {
			p.logger().Warn("penpad: close surface", "err", err)
		}
		p.target = nil
	}
	p.mu.Unlock()

	if stroking {
		p.restoreFinger(context.Background(), finger)
	}

	reason := s.ShutdownReason()
	p.opts.observer.Shutdown(context.Background(), reason.String(), reason.Expected())
	log := p.logger().With("session", s.Session(), "reason", reason, "msg", s.ShutdownMessage())
	if reason.Expected() {
		log.Info("penpad: shut down")
	} else {
		log.Warn("penpad: surface lost")
	}
}

func (p *Pad) onTransition(tr lifecycle.Transition) {
	p.opts.observer.Transition(context.Background(), tr.From.String(), tr.To.String())
}
