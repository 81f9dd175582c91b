package penpad

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/penpad/config"
	"github.com/gogpu/penpad/dispatch"
	"github.com/gogpu/penpad/lifecycle"
	"github.com/gogpu/penpad/observe"
)

// Option configures a Pad during creation.
//
// Example:
//
//	// CPU surface with default settings
//	pad, err := penpad.New(penpad.WithScheduler(loop))
//
//	// GPU-integrated surface sharing the host's device
//	pad, err := penpad.New(penpad.WithScheduler(loop), penpad.WithDeviceProvider(app))
type Option func(*padOptions)

type padOptions struct {
	sched    dispatch.Scheduler
	events   lifecycle.EventSource
	device   Device
	provider gpucontext.DeviceProvider
	cfg      config.Config
	observer *observe.Observer
	logger   *slog.Logger
}

func defaultOptions() padOptions {
	return padOptions{
		device: NopDevice{},
		cfg:    config.Default(),
	}
}

// WithScheduler sets the dispatch the Pad's lifecycle runs on. Required.
func WithScheduler(s dispatch.Scheduler) Option {
	return func(o *padOptions) {
		o.sched = s
	}
}

// WithEvents sets the host event source. Without it, host events are
// forwarded with Pad.Deliver.
func WithEvents(src lifecycle.EventSource) Option {
	return func(o *padOptions) {
		o.events = src
	}
}

// WithDevice sets the pen input device. The default discards every call.
func WithDevice(d Device) Option {
	return func(o *padOptions) {
		if d != nil {
			o.device = d
		}
	}
}

// WithDeviceProvider draws into a ggcanvas.Canvas that shares the host's
// GPU device instead of a CPU-only gg.Context.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *padOptions) {
		o.provider = p
	}
}

// WithConfig sets the initial property values, background, debounce and
// thumbnail size. New validates it.
func WithConfig(cfg config.Config) Option {
	return func(o *padOptions) {
		o.cfg = cfg
	}
}

// WithObservability records metrics and traces through obs.
func WithObservability(obs *observe.Observer) Option {
	return func(o *padOptions) {
		o.observer = obs
	}
}

// WithLogger sets the logger for this Pad. By default the logger set with
// SetLogger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *padOptions) {
		o.logger = l
	}
}
