// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"time"

	"github.com/gogpu/penpad/dispatch"
)

// Coalescer collapses a burst of triggers into one deferred call.
//
// The first Trigger schedules fn after the delay; triggers that arrive
// while that call is pending are absorbed. Coalescer must be used on the
// scheduler's goroutine.
type Coalescer struct {
	sched   dispatch.Scheduler
	delay   time.Duration
	fn      func()
	pending dispatch.Timer

	absorbed int
}

// NewCoalescer creates a coalescer that runs fn on sched.
func NewCoalescer(sched dispatch.Scheduler, delay time.Duration, fn func()) *Coalescer {
	return &Coalescer{sched: sched, delay: delay, fn: fn}
}

// Trigger schedules fn unless a call is already pending. It reports
// whether this trigger scheduled the call.
func (c *Coalescer) Trigger() bool {
	if c.pending != nil {
		c.absorbed++
		return false
	}
	c.pending = c.sched.AfterFunc(c.delay, c.fire)
	return true
}

func (c *Coalescer) fire() {
	c.pending = nil
	c.fn()
}

// Pending reports whether a call is scheduled.
func (c *Coalescer) Pending() bool {
	return c.pending != nil
}

// Cancel drops the pending call, if any. After Cancel returns the call
// will not run.
func (c *Coalescer) Cancel() {
	if c.pending == nil {
		return
	}
	c.pending.Stop()
	c.pending = nil
}

// Absorbed returns how many triggers were absorbed by a pending call.
func (c *Coalescer) Absorbed() int {
	return c.absorbed
}
