// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package props

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gogpu/penpad/internal/logging"
)

// entry is the engine-side identity of a property. Layers are keyed by
// *entry, so identity is pointer identity.
type entry struct {
	name   string
	def    any
	asap   bool
	notify func(ctx context.Context, c change)
}

// change carries the untyped values of one recomputation to a typed callback.
type change struct {
	src            Source
	cur, prev      any
	usr, sys       any
	hasUsr, hasSys bool
}

// store holds the three layers. It has no behavior of its own.
type store struct {
	cur map[*entry]any
	usr map[*entry]any
	sys map[*entry]any
}

func newStore() store {
	return store{
		cur: make(map[*entry]any),
		usr: make(map[*entry]any),
		sys: make(map[*entry]any),
	}
}

// holdKey marks a context as running inside one of the engine's callbacks.
type holdKey struct{ e *Engine }

type hold struct {
	active bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver registers fn to be called once for every propagated change.
// fn runs under the engine lock and must not call back into the engine.
func WithObserver(fn func(name string, src Source)) EngineOption {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithLogger sets the logger used for change diagnostics.
// By default the shared penpad logger is used.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine reconciles properties and dispatches their change callbacks.
//
// Engine is safe for concurrent use. Writers are serialized by a single
// lock that is also held while callbacks run; see the package
// documentation for the re-entry rules.
type Engine struct {
	// mu serializes writers and callback execution.
	mu sync.Mutex

	// rmu guards the layer maps for short reads and writes. It is never
	// held while a callback runs, so getters are safe inside callbacks.
	rmu   sync.RWMutex
	store store

	// inCallback is keyed by property, guarded by mu.
	inCallback map[*entry]bool

	observer func(name string, src Source)
	logger   *slog.Logger
}

// NewEngine creates an empty engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		store:      newStore(),
		inCallback: make(map[*entry]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// acquire takes the writer lock unless ctx is a callback context of this
// engine whose callback is still running.
func (e *Engine) acquire(ctx context.Context) (release func()) {
	if h, ok := ctx.Value(holdKey{e}).(*hold); ok && h.active {
		return func() {}
	}
	e.mu.Lock()
	return e.mu.Unlock
}

// write updates one layer and reconciles. set=false removes the value.
func (e *Engine) write(ctx context.Context, ent *entry, layer Source, v any, set bool) {
	release := e.acquire(ctx)
	defer release()

	e.rmu.Lock()
	switch layer {
	case SourceUsr:
		assign(e.store.usr, ent, v, set)
	case SourceSys:
		assign(e.store.sys, ent, v, set)
	case SourceCur:
		// Reset clears both preference layers at once.
		delete(e.store.usr, ent)
		delete(e.store.sys, ent)
	}
	e.rmu.Unlock()

	e.reconcile(ctx, layer, ent)
}

func assign(m map[*entry]any, ent *entry, v any, set bool) {
	if set {
		m[ent] = v
		return
	}
	delete(m, ent)
}

// reconcile re-establishes cur = sys ?: usr ?: default and notifies on change.
// Caller holds mu.
func (e *Engine) reconcile(ctx context.Context, src Source, ent *entry) {
	e.rmu.Lock()
	prev, ok := e.store.cur[ent]
	if !ok {
		prev = ent.def
	}
	usr, hasUsr := e.store.usr[ent]
	sys, hasSys := e.store.sys[ent]
	cur := ent.def
	switch {
	case hasSys:
		cur = sys
	case hasUsr:
		cur = usr
	}
	e.store.cur[ent] = cur
	e.rmu.Unlock()

	if cur == prev {
		return
	}

	logging.Or(e.logger).Debug("props: change propagated",
		"prop", ent.name, "source", src, "prev", prev, "cur", cur)
	if e.observer != nil {
		e.observer(ent.name, src)
	}

	if ent.notify == nil || e.inCallback[ent] {
		return
	}

	h := &hold{active: true}
	e.inCallback[ent] = true
	defer func() {
		h.active = false
		delete(e.inCallback, ent)
	}()

	ent.notify(context.WithValue(ctx, holdKey{e}, h), change{
		src:    src,
		cur:    cur,
		prev:   prev,
		usr:    usr,
		sys:    sys,
		hasUsr: hasUsr,
		hasSys: hasSys,
	})
}

func (e *Engine) current(ent *entry) any {
	e.rmu.RLock()
	defer e.rmu.RUnlock()
	if v, ok := e.store.cur[ent]; ok {
		return v
	}
	return ent.def
}

func (e *Engine) layer(ent *entry, src Source) (any, bool) {
	e.rmu.RLock()
	defer e.rmu.RUnlock()
	var v any
	var ok bool
	switch src {
	case SourceUsr:
		v, ok = e.store.usr[ent]
	case SourceSys:
		v, ok = e.store.sys[ent]
	}
	return v, ok
}
