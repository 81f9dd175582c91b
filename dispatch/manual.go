// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by a virtual clock.
//
// Nothing runs until the owner calls RunPending or Advance, and everything
// runs on the caller's goroutine. Manual is not safe for concurrent use.
type Manual struct {
	now     time.Duration
	seq     uint64
	posted  []func()
	pending []*manualTimer
}

// NewManual creates a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// Post queues fn for the next RunPending or Advance.
func (m *Manual) Post(fn func()) error {
	m.posted = append(m.posted, fn)
	return nil
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{owner: m, at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int { return len(m.pending) }

// RunPending runs posted functions, including ones posted while running.
func (m *Manual) RunPending() {
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		if fn != nil {
			fn()
		}
	}
}

// Advance moves the clock forward by d, firing due timers in order of
// deadline and then creation.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	m.RunPending()
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.at
		m.remove(t)
		t.fn()
		m.RunPending()
	}
	m.now = target
}

func (m *Manual) next(limit time.Duration) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	if m.pending[0].at > limit {
		return nil
	}
	return m.pending[0]
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	owner *Manual
	at    time.Duration
	seq   uint64
	fn    func()
}

func (t *manualTimer) Stop() bool {
	return t.owner.remove(t)
}
