// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dispatch provides single-threaded cooperative scheduling.
//
// All work scheduled through a Scheduler runs on one goroutine, strictly in
// the order it was posted or came due. Components built on it, such as the
// lifecycle manager, need no locks.
//
// Two implementations are provided:
//
//   - Loop runs work on a dedicated goroutine with real timers.
//   - Manual runs work on the caller's goroutine against a virtual clock,
//     for tests and deterministic replay.
package dispatch

import (
	"errors"
	"time"
)

// ErrStopped is returned when work is posted to a loop that has exited.
var ErrStopped = errors.New("dispatch: loop stopped")

// Scheduler runs functions on its dispatch goroutine.
type Scheduler interface {
	// Post queues fn to run as soon as possible.
	Post(fn func()) error

	// AfterFunc queues fn to run once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending delayed function.
type Timer interface {
	// Stop prevents the function from running. It reports whether the
	// call stopped it; false means it already ran or was stopped.
	//
	// When Stop is called on the dispatch goroutine, the function is
	// guaranteed not to run afterwards.
	Stop() bool
}
