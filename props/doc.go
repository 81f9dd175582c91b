// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package props reconciles a property's effective value from two
// independently written layers.
//
// Each property has three layers:
//
//   - system: an override imposed independently of the user (absent = no override)
//   - user: the value the user asked for (absent = no preference)
//   - current: the effective value, always system ?: user ?: default
//
// A change callback runs only when the effective value actually changes,
// exactly once per change:
//
//	e := props.NewEngine()
//	pen := props.New(e, true, func(ctx context.Context, d props.Delta[bool]) {
//	    device.SetRawDrawingEnabled(d.Cur)
//	}, props.Named("pen.enabled"))
//
//	pen.SetUser(ctx, true)     // no change: default is already true
//	pen.SetSystem(ctx, false)  // notification panel opened: callback(false)
//	pen.ClearSystem(ctx)       // panel closed: callback(true)
//
// # Reentrancy
//
// Callbacks run while the engine lock is held, so writes are observed in a
// single order by every callback. A callback may write the engine again
// through the context it receives; those writes re-enter without taking the
// lock. If the write targets the property whose callback is running, the
// layers and the effective value are updated but the callback is not
// invoked again. Writes to other properties notify normally.
//
// Writing the engine from inside a callback with any other context
// deadlocks, and the callback context must not be handed to another
// goroutine.
package props
