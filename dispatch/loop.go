// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop executes posted work on a single goroutine started by Run.
//
// Post and AfterFunc are safe to call from any goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}

	running atomic.Bool
	once    sync.Once
}

// NewLoop creates a loop whose queue holds up to size pending functions.
// If size is 0 or negative, 64 is used.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run processes work until ctx is cancelled. Work still queued when ctx is
// cancelled is dropped. Run must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	defer func() {
		l.running.Store(false)
		l.once.Do(func() { close(l.done) })
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			if fn != nil {
				fn()
			}
		}
	}
}

// Post queues fn. It blocks while the queue is full and returns ErrStopped
// once Run has returned.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Call runs fn on the loop and waits for it to finish.
// Calling it from the loop goroutine deadlocks.
func (l *Loop) Call(fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// AfterFunc posts fn to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			// Checked on the loop goroutine: a Stop issued there
			// before this point wins.
			if t.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
