package penpad

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"

	"github.com/gogpu/penpad/config"
	"github.com/gogpu/penpad/internal/logging"
	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/props"
	"github.com/gogpu/penpad/stroke"
)

// Pad is a pen drawing surface.
//
// Create one with New and wire it to a host with Init. Pad is safe for
// concurrent use except for the lifecycle methods noted on each.
type Pad struct {
	opts    padOptions
	engine  *props.Engine
	manager *lifecycle.Manager

	penEnabled    *props.Prop[bool]
	fingerEnabled *props.Prop[bool]
	mode          *props.Prop[stroke.PenMode]
	style         *props.Prop[stroke.Style]
	width         *props.Prop[float64]
	color         *props.Prop[gg.RGBA]

	// mu guards the fields below and serializes Device calls. Property
	// writes never happen while mu is held, because property callbacks
	// take it.
	mu         sync.Mutex
	target     target
	limit      stroke.Rect
	enabled    bool
	rawOpen    bool
	background gg.RGBA
	exclusions []stroke.Rect
	history    stroke.History
	current    *stroke.Stroke
	finger     fingerState
}

// fingerState is the finger system override in place before a stroke.
type fingerState struct {
	value bool
	set   bool
}

// New creates a Pad. WithScheduler is required.
func New(opts ...Option) (*Pad, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("penpad: %w", err)
	}

	p := &Pad{
		opts:       o,
		background: o.cfg.BackgroundColor(),
	}
	p.engine = props.NewEngine(
		props.WithLogger(o.logger),
		props.WithObserver(func(name string, src props.Source) {
			o.observer.PropChanged(context.Background(), name, src.String())
		}),
	)

	def := stroke.DefaultAttr()
	p.penEnabled = props.New(p.engine, true,
		func(_ context.Context, d props.Delta[bool]) { p.applyPen(d.Cur) }, props.Named("pen-enabled"))
	p.fingerEnabled = props.New(p.engine, true,
		func(_ context.Context, d props.Delta[bool]) { p.applyFinger(d.Cur) }, props.Named("finger-enabled"))
	p.mode = props.New(p.engine, def.Mode,
		func(context.Context, props.Delta[stroke.PenMode]) { p.applyStyle() }, props.Named("mode"))
	p.style = props.New(p.engine, def.Style,
		func(context.Context, props.Delta[stroke.Style]) { p.applyStyle() }, props.Named("style"))
	p.width = props.New(p.engine, def.Width,
		func(context.Context, props.Delta[float64]) { p.applyStyle() }, props.Named("width"))
	p.color = props.New(p.engine, def.Color,
		func(context.Context, props.Delta[gg.RGBA]) { p.applyStyle() }, props.Named("color"))

	ctx := context.Background()
	attr := o.cfg.Attr()
	p.penEnabled.SetUser(ctx, o.cfg.Pen.Enabled)
	p.fingerEnabled.SetUser(ctx, o.cfg.Pen.Finger)
	p.mode.SetUser(ctx, attr.Mode)
	p.style.SetUser(ctx, attr.Style)
	p.width.SetUser(ctx, attr.Width)
	p.color.SetUser(ctx, attr.Color)

	m, err := lifecycle.NewBuilder().
		Scheduler(o.sched).
		Events(o.events).
		Debounce(o.cfg.Debounce).
		Logger(o.logger).
		OnStartup(p.onStartup).
		OnEnabled(p.onEnabled).
		OnDisabled(p.onDisabled).
		OnShutdown(p.onShutdown).
		OnSave(p.onSave).
		Observe(p.onTransition).
		Build()
	if err != nil {
		return nil, fmt.Errorf("penpad: %w", err)
	}
	p.manager = m
	return p, nil
}

func (p *Pad) logger() *slog.Logger {
	return logging.Or(p.opts.logger)
}

// PenEnabled is the pen capture switch. Its system layer is driven by the
// notification panel and the overrides file.
func (p *Pad) PenEnabled() *props.Prop[bool] { return p.penEnabled }

// FingerEnabled is the finger touch switch. Its system layer is forced off
// for the duration of each stroke.
func (p *Pad) FingerEnabled() *props.Prop[bool] { return p.fingerEnabled }

// Mode selects between drawing and erasing strokes.
func (p *Pad) Mode() *props.Prop[stroke.PenMode] { return p.mode }

// Style is the brush of new strokes.
func (p *Pad) Style() *props.Prop[stroke.Style] { return p.style }

// Width is the nominal width of new strokes.
func (p *Pad) Width() *props.Prop[float64] { return p.width }

// Color is the color of new strokes.
func (p *Pad) Color() *props.Prop[gg.RGBA] { return p.color }

// Attr returns the effective attributes of the next stroke.
func (p *Pad) Attr() stroke.Attr {
	return stroke.Attr{
		Mode:  p.mode.Current(),
		Style: p.style.Current(),
		Width: p.width.Current(),
		Color: p.color.Current(),
	}
}

// Manager returns the lifecycle manager of the Pad.
func (p *Pad) Manager() *lifecycle.Manager { return p.manager }

// State returns the lifecycle state. Call it on the scheduler goroutine.
func (p *Pad) State() lifecycle.State { return p.manager.State() }

// Init wires the Pad to a host and its surface. Call it on the scheduler
// goroutine.
func (p *Pad) Init(host lifecycle.Ref[lifecycle.Host], surface lifecycle.Ref[lifecycle.Resource], saved lifecycle.Bundle) {
	p.manager.Init(host, surface, saved)
}

// Enable forces drawing on. Call it on the scheduler goroutine.
func (p *Pad) Enable() { p.manager.Enable() }

// Disable turns drawing off until the next enable. Call it on the
// scheduler goroutine.
func (p *Pad) Disable() { p.manager.Disable() }

// Shutdown releases the surface. Call it on the scheduler goroutine.
func (p *Pad) Shutdown(msg string) {
	p.manager.Shutdown(lifecycle.ReasonManualShutdown, msg)
}

// Deliver forwards a host event when no event source was configured.
// Call it on the scheduler goroutine.
func (p *Pad) Deliver(ev lifecycle.Event) { p.manager.Deliver(ev) }

// ApplyOverrides sets or clears the system layer of the pen and finger
// switches. A nil field clears the override.
func (p *Pad) ApplyOverrides(ctx context.Context, o config.Overrides) {
	applySystem(ctx, p.penEnabled, o.PenEnabled)
	applySystem(ctx, p.fingerEnabled, o.FingerEnabled)
}

func applySystem[T comparable](ctx context.Context, prop *props.Prop[T], v *T) {
	if v == nil {
		prop.ClearSystem(ctx)
		return
	}
	prop.SetSystem(ctx, *v)
}

// SystemPanel reports the system notification panel opening or closing.
// Pen capture is suspended while the panel is open.
func (p *Pad) SystemPanel(ctx context.Context, open bool) {
	p.logger().Debug("penpad: system panel", "open", open)
	if open {
		p.penEnabled.SetSystem(ctx, false)
	} else {
		p.penEnabled.ClearSystem(ctx)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.presentLocked()
}

// AddExclusion adds a region that receives no pen input.
func (p *Pad) AddExclusion(r stroke.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exclusions = append(p.exclusions, r)
	if p.rawOpen {
		p.opts.device.OpenRawDrawing(p.limit, slices.Clone(p.exclusions))
	}
}

// Exclusions returns a copy of the exclusion regions.
func (p *Pad) Exclusions() []stroke.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.exclusions)
}

// SetBackground sets the color used to clear the surface.
func (p *Pad) SetBackground(c gg.RGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.background = c
}

// Background returns the color used to clear the surface.
func (p *Pad) Background() gg.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.background
}

// Strokes returns the number of strokes in the history.
func (p *Pad) Strokes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Len()
}

// Enabled reports whether the surface is ready for drawing.
func (p *Pad) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Refresh clears the surface and repaints the stroke history.
func (p *Pad) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repaintLocked(ctx)
}

// EraseEverything clears the history and the surface with the background.
func (p *Pad) EraseEverything(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eraseLocked(ctx, p.background)
}

// EraseWith clears the history and the surface with c. The background is
// unchanged.
func (p *Pad) EraseWith(ctx context.Context, c gg.RGBA) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eraseLocked(ctx, c)
}

func (p *Pad) eraseLocked(ctx context.Context, c gg.RGBA) error {
	p.history.Clear()
	p.current = nil
	if p.target == nil {
		return nil
	}
	_, end := p.opts.observer.StartRender(ctx, 0)
	p.target.Context().ClearWithColor(c)
	err := p.presentLocked()
	end(err)
	return err
}

// Canvas returns the GPU canvas when the Pad was created with
// WithDeviceProvider and the surface exists, otherwise nil. The host
// renders it with its own pipeline.
func (p *Pad) Canvas() *ggcanvas.Canvas {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.target.(*gpuTarget); ok {
		return t.canvas
	}
	return nil
}

// repaintLocked clears the target and paints every stroke.
func (p *Pad) repaintLocked(ctx context.Context) error {
	if p.target == nil {
		return ErrNoSurface
	}
	_, end := p.opts.observer.StartRender(ctx, p.history.Len())

	if p.rawOpen {
		p.opts.device.SetRawDrawingEnabled(false)
	}
	dc := p.target.Context()
	dc.ClearWithColor(p.background)
	var err error
	for _, s := range p.history.Strokes() {
		if err = stroke.Paint(dc, s); err != nil {
			break
		}
	}
	if err == nil {
		err = p.presentLocked()
	}
	if p.rawOpen {
		p.opts.device.SetRawDrawingEnabled(p.penEnabled.Current())
	}
	end(err)
	return err
}

func (p *Pad) presentLocked() error {
	if p.target == nil {
		return nil
	}
	if err := p.target.Present(); err != nil {
		p.logger().Warn("penpad: present failed", "err", err)
		return err
	}
	return nil
}

func (p *Pad) applyPen(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rawOpen {
		p.opts.device.SetRawDrawingEnabled(enabled)
	}
}

func (p *Pad) applyFinger(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.device.SetFingerTouchEnabled(enabled)
}

func (p *Pad) applyStyle() {
	attr := p.Attr()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.device.SetStrokeStyle(attr)
}
