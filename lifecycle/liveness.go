// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"sync"
	"weak"
)

// Ref is a reference that does not own its target. Get reports false once
// the target is gone.
type Ref[T any] interface {
	Get() (T, bool)
}

// Weak returns a Ref to p that does not keep p alive. *P must implement T;
// otherwise Get reports false.
//
//	host := lifecycle.Weak[lifecycle.Host](window)
func Weak[T any, P any](p *P) Ref[T] {
	return weakRef[T, P]{ptr: weak.Make(p)}
}

type weakRef[T any, P any] struct {
	ptr weak.Pointer[P]
}

func (w weakRef[T, P]) Get() (T, bool) {
	var zero T
	p := w.ptr.Value()
	if p == nil {
		return zero, false
	}
	v, ok := any(p).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Static returns a Ref that always resolves to v. Use it when the owner
// manages the target's lifetime itself.
func Static[T any](v T) Ref[T] {
	return staticRef[T]{v: v}
}

type staticRef[T any] struct{ v T }

func (s staticRef[T]) Get() (T, bool) { return s.v, true }

// Arena hands out handles to values whose lifetime is ended explicitly
// with Release. Arena is safe for concurrent use.
type Arena[T any] struct {
	mu    sync.Mutex
	next  uint64
	items map[uint64]T
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{items: make(map[uint64]T)}
}

// Insert stores v and returns a handle to it.
func (a *Arena[T]) Insert(v T) Handle[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.items[a.next] = v
	return Handle[T]{arena: a, id: a.next}
}

// Release ends the life of the value behind h. It reports whether the
// value was still alive.
func (a *Arena[T]) Release(h Handle[T]) bool {
	if h.arena != a {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.items[h.id]
	delete(a.items, h.id)
	return ok
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Handle refers to a value in an Arena. The zero Handle never resolves.
type Handle[T any] struct {
	arena *Arena[T]
	id    uint64
}

// Get returns the value if it has not been released.
func (h Handle[T]) Get() (T, bool) {
	var zero T
	if h.arena == nil {
		return zero, false
	}
	h.arena.mu.Lock()
	defer h.arena.mu.Unlock()
	v, ok := h.arena.items[h.id]
	if !ok {
		return zero, false
	}
	return v, true
}

// Alive reports whether the value has not been released.
func (h Handle[T]) Alive() bool {
	_, ok := h.Get()
	return ok
}

// Tracker resolves a host and a resource reference together.
type Tracker struct {
	host     Ref[Host]
	resource Ref[Resource]
}

// NewTracker creates a tracker. nil references never resolve.
func NewTracker(host Ref[Host], resource Ref[Resource]) *Tracker {
	return &Tracker{host: host, resource: resource}
}

// Host returns the host if it is still alive.
func (t *Tracker) Host() (Host, bool) {
	if t == nil || t.host == nil {
		return nil, false
	}
	h, ok := t.host.Get()
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

// Resource returns the resource if it is still alive.
func (t *Tracker) Resource() (Resource, bool) {
	if t == nil || t.resource == nil {
		return nil, false
	}
	r, ok := t.resource.Get()
	if !ok || r == nil {
		return nil, false
	}
	return r, true
}

// Valid reports whether both references resolve and the resource has a
// strictly positive extent.
func (t *Tracker) Valid() bool {
	if _, ok := t.Host(); !ok {
		return false
	}
	r, ok := t.Resource()
	if !ok {
		return false
	}
	w, h := r.Size()
	return w > 0 && h > 0
}
