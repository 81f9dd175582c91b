// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lifecycle controls when a drawing surface may be used.
//
// A Manager watches a host (the window or activity that owns the surface)
// and a resource (the surface itself). Neither is owned by the Manager: both
// are held through Ref values that can stop resolving at any time.
//
// The Manager is enabled while the host is resumed, both references
// resolve, and the resource has a positive size. It reports transitions
// through hooks configured on a Builder:
//
//	m, err := lifecycle.NewBuilder().
//	    Scheduler(loop).
//	    Events(host.Events()).
//	    OnEnabled(func(s lifecycle.Enabled) { openInput(s.Resource()) }).
//	    OnDisabled(func(lifecycle.Started) { closeInput() }).
//	    OnShutdown(func(s lifecycle.Stopped) {
//	        if !s.ShutdownReason().Expected() {
//	            log.Printf("surface lost: %s", s.ShutdownMessage())
//	        }
//	    }).
//	    Build()
//
//	m.Init(lifecycle.Weak[lifecycle.Host](host), lifecycle.Weak[lifecycle.Resource](view), saved)
//
// # Layout bursts
//
// Resources report layout changes in bursts while dependent views resize
// each other. The Manager coalesces a burst into a single recheck scheduled
// DefaultDebounce after the first event.
//
// # Threading
//
// A Manager is confined to the goroutine of its Scheduler. Event sources,
// layout notifications, and timers must all be delivered there. The Manager
// uses no locks.
package lifecycle
