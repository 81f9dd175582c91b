// Package penpad manages a pen drawing surface.
//
// # Overview
//
// A Pad combines three pieces:
//
//   - Reconciled properties (package props) for pen, finger, and stroke
//     settings. Each has a user value and a system override; the device
//     is updated only when the effective value changes.
//   - A surface lifecycle manager (package lifecycle) that enables drawing
//     once the host is resumed and the surface has a size, and tears it
//     down when either goes away.
//   - Stroke capture and painting (package stroke) onto a gg drawing
//     context, either CPU-only or bridged to the GPU through ggcanvas.
//
// # Quick Start
//
//	loop := dispatch.NewLoop(0)
//	go loop.Run(ctx)
//
//	pad, err := penpad.New(
//	    penpad.WithScheduler(loop),
//	    penpad.WithEvents(window),
//	    penpad.WithDevice(pen),
//	)
//	if err != nil {
//	    return err
//	}
//	loop.Post(func() {
//	    pad.Init(lifecycle.Weak[lifecycle.Host](window), lifecycle.Weak[lifecycle.Resource](view), saved)
//	})
//
//	// From the pen driver:
//	if pad.BeginStroke(ctx, p0) {
//	    pad.AddPoints(ctx, p1, p2, p3)
//	    pad.EndStroke(ctx)
//	}
//
// # Threading
//
// Init, Shutdown, Enable, and Disable must run on the scheduler goroutine,
// like every lifecycle hook. Property writes, stroke input, and drawing
// methods are safe from any goroutine.
package penpad
