// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package sim provides in-process stand-ins for a host window and its
// drawing surface. It drives the lifecycle manager in tests and in the
// replay command.
package sim

import (
	"github.com/gogpu/penpad/lifecycle"
)

// Host is a simulated window. It implements lifecycle.Host,
// lifecycle.ResumeReporter and lifecycle.EventSource.
type Host struct {
	id      string
	resumed bool
	next    int
	subs    map[int]func(lifecycle.Event)
}

// NewHost creates a host that is not resumed.
func NewHost(id string) *Host {
	return &Host{id: id, subs: make(map[int]func(lifecycle.Event))}
}

// HostID returns the id given to NewHost.
func (h *Host) HostID() string { return h.id }

// Resumed reports whether the last lifecycle event was EventResumed.
func (h *Host) Resumed() bool { return h.resumed }

// Subscribe registers fn for events emitted by h.
func (h *Host) Subscribe(fn func(lifecycle.Event)) (cancel func()) {
	h.next++
	id := h.next
	h.subs[id] = fn
	return func() { delete(h.subs, id) }
}

// Subscribers returns the number of active subscriptions.
func (h *Host) Subscribers() int { return len(h.subs) }

// Emit delivers an event about h to every subscriber.
func (h *Host) Emit(kind lifecycle.EventKind) {
	h.EmitEvent(lifecycle.Event{Kind: kind, Host: h})
}

// EmitEvent delivers ev unchanged. Subscribers registered while
// delivering are not called.
func (h *Host) EmitEvent(ev lifecycle.Event) {
	switch ev.Kind {
	case lifecycle.EventResumed:
		h.resumed = true
	case lifecycle.EventPaused, lifecycle.EventStopped, lifecycle.EventDestroyed:
		h.resumed = false
	}
	fns := make([]func(lifecycle.Event), 0, len(h.subs))
	for id := 1; id <= h.next; id++ {
		if fn, ok := h.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	for _, fn := range fns {
		fn(ev)
	}
}

// Surface is a simulated drawing surface. It implements
// lifecycle.Resource.
type Surface struct {
	w, h      int
	next      int
	listeners map[int]func()
}

// NewSurface creates a surface with the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{w: w, h: h, listeners: make(map[int]func())}
}

// Size returns the current size.
func (s *Surface) Size() (width, height int) { return s.w, s.h }

// OnLayoutChange registers fn for layout passes.
func (s *Surface) OnLayoutChange(fn func()) (cancel func()) {
	s.next++
	id := s.next
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Listeners returns the number of registered layout listeners.
func (s *Surface) Listeners() int { return len(s.listeners) }

// SetSize resizes the surface and runs a layout pass.
func (s *Surface) SetSize(w, h int) {
	s.w, s.h = w, h
	s.Layout()
}

// Layout runs a layout pass without changing the size.
func (s *Surface) Layout() {
	fns := make([]func(), 0, len(s.listeners))
	for id := 1; id <= s.next; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	for _, fn := range fns {
		fn()
	}
}
