// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package props

import (
	"context"
	"fmt"
)

// Option configures a property created with New.
type Option func(*propConfig)

type propConfig struct {
	name     string
	deferred bool
}

// Named sets the property name used in logs and metrics.
func Named(name string) Option {
	return func(c *propConfig) {
		c.name = name
	}
}

// Deferred marks the property as not applied as soon as possible.
// The flag is recorded and reported by Immediate; reconciliation is
// currently always immediate.
func Deferred() Option {
	return func(c *propConfig) {
		c.deferred = true
	}
}

// ChangeFunc is called when the effective value of a property changes.
type ChangeFunc[T comparable] func(ctx context.Context, d Delta[T])

// Prop is a typed handle to one property of an Engine.
type Prop[T comparable] struct {
	engine *Engine
	ent    *entry
	def    T
}

// New creates a property on e with default value def. onChange may be nil.
func New[T comparable](e *Engine, def T, onChange ChangeFunc[T], opts ...Option) *Prop[T] {
	var cfg propConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ent := &entry{
		name: cfg.name,
		def:  def,
		asap: !cfg.deferred,
	}
	if ent.name == "" {
		ent.name = fmt.Sprintf("prop@%p", ent)
	}

	if onChange != nil {
		ent.notify = func(ctx context.Context, c change) {
			onChange(ctx, toDelta[T](c))
		}
	}

	return &Prop[T]{engine: e, ent: ent, def: def}
}

func toDelta[T comparable](c change) Delta[T] {
	d := Delta[T]{
		Source: c.src,
		Cur:    c.cur.(T),
		Prev:   c.prev.(T),
	}
	if c.hasUsr {
		u := c.usr.(T)
		d.Usr = &u
	}
	if c.hasSys {
		s := c.sys.(T)
		d.Sys = &s
	}
	return d
}

// Name returns the property name.
func (p *Prop[T]) Name() string { return p.ent.name }

// Default returns the value used when neither layer is set.
func (p *Prop[T]) Default() T { return p.def }

// Immediate reports whether the property was created without Deferred.
func (p *Prop[T]) Immediate() bool { return p.ent.asap }

// Current returns the effective value. It never fails; an unset property
// resolves to its default.
func (p *Prop[T]) Current() T {
	return p.engine.current(p.ent).(T)
}

// User returns the user layer value and whether it is set.
func (p *Prop[T]) User() (T, bool) {
	return p.get(SourceUsr)
}

// System returns the system layer value and whether it is set.
func (p *Prop[T]) System() (T, bool) {
	return p.get(SourceSys)
}

func (p *Prop[T]) get(src Source) (T, bool) {
	v, ok := p.engine.layer(p.ent, src)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// SetUser records the user's preference.
func (p *Prop[T]) SetUser(ctx context.Context, v T) {
	p.engine.write(ctx, p.ent, SourceUsr, v, true)
}

// ClearUser removes the user's preference.
func (p *Prop[T]) ClearUser(ctx context.Context) {
	p.engine.write(ctx, p.ent, SourceUsr, nil, false)
}

// SetSystem imposes a system override.
func (p *Prop[T]) SetSystem(ctx context.Context, v T) {
	p.engine.write(ctx, p.ent, SourceSys, v, true)
}

// ClearSystem lifts the system override.
func (p *Prop[T]) ClearSystem(ctx context.Context) {
	p.engine.write(ctx, p.ent, SourceSys, nil, false)
}

// Reset clears both layers in one write, reverting to the default.
// At most one callback runs, with Source SourceCur.
func (p *Prop[T]) Reset(ctx context.Context) {
	p.engine.write(ctx, p.ent, SourceCur, nil, false)
}
