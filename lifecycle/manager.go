// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/penpad/dispatch"
	"github.com/gogpu/penpad/internal/logging"
)

// DefaultDebounce is the delay between the first layout change of a burst
// and the enablement recheck.
const DefaultDebounce = 10 * time.Millisecond

// ErrNoScheduler is returned by Build when no Scheduler was configured.
var ErrNoScheduler = errors.New("lifecycle: scheduler is required")

// Started is the view of a live Manager passed to hooks.
type Started interface {
	Session() string
	State() State
	Enable()
	Disable()
	Shutdown(reason ShutdownReason, msg string)
}

// Enabled is passed to OnEnabled. Host and Resource are the live objects
// resolved at the moment of enabling.
type Enabled interface {
	Started
	Host() Host
	Resource() Resource
}

// Stopped is passed to OnShutdown.
type Stopped interface {
	Session() string
	ShutdownReason() ShutdownReason
	ShutdownMessage() string
}

// hooks are fixed at Build time. Every field is non-nil.
type hooks struct {
	startup  func(Started, Bundle)
	enabled  func(Enabled)
	disabled func(Started)
	shutdown func(Stopped)
	save     func(Started, Bundle)
	observe  func(Transition)
}

// Builder configures a Manager.
type Builder struct {
	hooks  hooks
	sched  dispatch.Scheduler
	events EventSource
	delay  time.Duration
	logger *slog.Logger
}

// NewBuilder returns a builder with no-op hooks and DefaultDebounce.
func NewBuilder() *Builder {
	return &Builder{
		hooks: hooks{
			startup:  func(Started, Bundle) {},
			enabled:  func(Enabled) {},
			disabled: func(Started) {},
			shutdown: func(Stopped) {},
			save:     func(Started, Bundle) {},
			observe:  func(Transition) {},
		},
		delay: DefaultDebounce,
	}
}

// OnStartup is called once per Init, before the surface is valid.
func (b *Builder) OnStartup(fn func(Started, Bundle)) *Builder {
	if fn != nil {
		b.hooks.startup = fn
	}
	return b
}

// OnEnabled is called each time the surface becomes ready.
func (b *Builder) OnEnabled(fn func(Enabled)) *Builder {
	if fn != nil {
		b.hooks.enabled = fn
	}
	return b
}

// OnDisabled is called each time the surface stops being ready without
// shutting down.
func (b *Builder) OnDisabled(fn func(Started)) *Builder {
	if fn != nil {
		b.hooks.disabled = fn
	}
	return b
}

// OnShutdown is called once per Init when the Manager shuts down.
func (b *Builder) OnShutdown(fn func(Stopped)) *Builder {
	if fn != nil {
		b.hooks.shutdown = fn
	}
	return b
}

// OnSave is called when the host saves its instance state.
func (b *Builder) OnSave(fn func(Started, Bundle)) *Builder {
	if fn != nil {
		b.hooks.save = fn
	}
	return b
}

// Observe is called for every state transition, before the matching hook.
func (b *Builder) Observe(fn func(Transition)) *Builder {
	if fn != nil {
		b.hooks.observe = fn
	}
	return b
}

// Scheduler sets the dispatch the Manager is confined to. Required.
func (b *Builder) Scheduler(s dispatch.Scheduler) *Builder {
	b.sched = s
	return b
}

// Events sets the host event source. Without one, the owner forwards
// events with Deliver.
func (b *Builder) Events(src EventSource) *Builder {
	b.events = src
	return b
}

// Debounce overrides DefaultDebounce. Non-positive values are ignored.
func (b *Builder) Debounce(d time.Duration) *Builder {
	if d > 0 {
		b.delay = d
	}
	return b
}

// Logger sets the logger. By default the shared penpad logger is used.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Build creates the Manager. The builder may be reused afterwards; the
// Manager keeps its own copy of the configuration.
func (b *Builder) Build() (*Manager, error) {
	if b.sched == nil {
		return nil, ErrNoScheduler
	}
	m := &Manager{
		hooks:  b.hooks,
		sched:  b.sched,
		events: b.events,
		logger: b.logger,
	}
	m.coalescer = NewCoalescer(b.sched, b.delay, m.recheck)
	return m, nil
}

// Manager is the surface lifecycle state machine. See the package
// documentation for its threading rules.
type Manager struct {
	hooks     hooks
	sched     dispatch.Scheduler
	events    EventSource
	coalescer *Coalescer
	logger    *slog.Logger

	state   State
	session string
	tracker *Tracker
	resumed bool

	reason  ShutdownReason
	message string

	cancelEvents func()
	cancelLayout func()
}

// Init wires the Manager to a host and resource and calls OnStartup.
//
// If the Manager is live from an earlier Init, it is first shut down with
// ReasonManualShutdown. If either reference is already dead, the Manager
// shuts down right after startup.
func (m *Manager) Init(host Ref[Host], resource Ref[Resource], saved Bundle) {
	if m.live() {
		m.Shutdown(ReasonManualShutdown, "recycled without shutdown")
	}

	m.session = uuid.NewString()
	m.tracker = NewTracker(host, resource)
	m.reason = ReasonUnknown
	m.message = ""
	m.resumed = false
	m.setState(StateStarted, ReasonUnknown)

	h, hostOK := m.tracker.Host()
	if hostOK {
		if rr, ok := h.(ResumeReporter); ok {
			m.resumed = rr.Resumed()
		}
	}
	if m.events != nil {
		m.cancelEvents = m.events.Subscribe(m.Deliver)
	}
	if r, ok := m.tracker.Resource(); ok {
		m.cancelLayout = r.OnLayoutChange(m.LayoutChanged)
	}

	m.log().Debug("lifecycle: init", "resumed", m.resumed)
	m.hooks.startup(m, saved)

	if m.state != StateStarted {
		return
	}
	if !hostOK {
		m.Shutdown(ReasonActivityLost, "host lost before startup")
		return
	}
	if _, ok := m.tracker.Resource(); !ok {
		m.Shutdown(ReasonSurfaceLost, "surface lost before startup")
		return
	}
	if m.resumed {
		m.LayoutChanged()
	}
}

// Shutdown moves the Manager to StateShutdown and calls OnShutdown.
// It is a no-op when the Manager is not live.
func (m *Manager) Shutdown(reason ShutdownReason, msg string) {
	m.log().Debug("lifecycle: shutdown requested", "live", m.live(), "reason", reason)
	if !m.live() {
		return
	}
	m.log().Info("lifecycle: shutting down", "reason", reason, "msg", msg)

	m.coalescer.Cancel()
	if m.cancelEvents != nil {
		m.cancelEvents()
		m.cancelEvents = nil
	}
	if m.cancelLayout != nil {
		m.cancelLayout()
		m.cancelLayout = nil
	}
	m.tracker = nil
	m.resumed = false
	m.reason = reason
	m.message = msg

	m.setState(StateShutdown, reason)
}

// Enable forces the Manager into StateEnabled without checking the
// resource size. It is a no-op when shut down or already enabled. A dead
// host or resource shuts the Manager down instead.
func (m *Manager) Enable() {
	if !m.live() || m.state == StateEnabled {
		return
	}
	m.act(func(h Host) {
		r, ok := m.tracker.Resource()
		if !ok {
			m.Shutdown(ReasonSurfaceLost, "surface lost")
			return
		}
		m.enter(h, r)
	})
}

// Disable leaves StateEnabled and cancels any pending recheck.
func (m *Manager) Disable() {
	if !m.live() {
		return
	}
	m.coalescer.Cancel()
	if m.state != StateEnabled {
		return
	}
	m.setState(StateDisabled, ReasonUnknown)
}

// Deliver handles one host event. Events whose Host is set and has a
// different HostID from the tracked host are ignored.
func (m *Manager) Deliver(ev Event) {
	if !m.live() {
		return
	}
	if ev.Host != nil {
		if h, ok := m.tracker.Host(); ok && h.HostID() != ev.Host.HostID() {
			return
		}
	}

	m.log().Debug("lifecycle: event", "event", ev.Kind)
	switch ev.Kind {
	case EventResumed:
		m.act(func(Host) {
			m.resumed = true
			m.updateEnabled()
		})
	case EventPaused:
		m.act(func(Host) {
			m.resumed = false
			m.updateEnabled()
		})
	case EventDestroyed:
		m.Shutdown(ReasonActivityDestroy, "host destroyed")
	case EventSaveState:
		m.act(func(Host) { m.hooks.save(m, ev.Bundle) })
	case EventCreated, EventStarted, EventStopped:
		m.act(func(Host) {})
	case EventConfigurationChanged, EventLowMemory:
	case EventTrimMemory:
		m.log().Debug("lifecycle: trim memory", "level", ev.TrimLevel)
	}
}

// LayoutChanged records a layout pass of the resource. While not enabled,
// the first call of a burst schedules a recheck; the rest are absorbed.
func (m *Manager) LayoutChanged() {
	if !m.live() || m.state == StateEnabled {
		return
	}
	m.coalescer.Trigger()
}

// recheck runs once per coalesced layout burst. A layout pass means the
// host is on screen, so it counts as resumed.
func (m *Manager) recheck() {
	if !m.live() {
		return
	}
	m.act(func(Host) {
		if _, ok := m.tracker.Resource(); !ok {
			m.Shutdown(ReasonSurfaceLost, "surface lost")
			return
		}
		m.resumed = true
		m.updateEnabled()
	})
}

// updateEnabled moves between enabled and not enabled when the
// resumed-and-valid condition disagrees with the current state.
func (m *Manager) updateEnabled() {
	if !m.live() {
		return
	}
	want := m.resumed && m.tracker.Valid()
	have := m.state == StateEnabled
	if want == have {
		return
	}
	if !want {
		m.Disable()
		return
	}
	h, hok := m.tracker.Host()
	r, rok := m.tracker.Resource()
	if hok && rok {
		m.enter(h, r)
	}
}

func (m *Manager) enter(h Host, r Resource) {
	m.coalescer.Cancel()
	m.setState(StateEnabled, ReasonUnknown, enabledView{Manager: m, host: h, resource: r})
}

// act runs work against the live host, or shuts down with
// ReasonActivityLost when the host is gone.
func (m *Manager) act(work func(Host)) {
	h, ok := m.tracker.Host()
	if !ok {
		m.Shutdown(ReasonActivityLost, "host lost")
		return
	}
	if m.live() {
		work(h)
	}
}

// setState records the transition and calls the hook for the new state.
func (m *Manager) setState(to State, reason ShutdownReason, view ...enabledView) {
	from := m.state
	m.state = to
	m.log().Debug("lifecycle: transition", "from", from, "to", to)
	m.hooks.observe(Transition{Session: m.session, From: from, To: to, Reason: reason})

	switch to {
	case StateEnabled:
		m.hooks.enabled(view[0])
	case StateDisabled:
		m.hooks.disabled(m)
	case StateShutdown:
		m.hooks.shutdown(m)
	}
}

func (m *Manager) live() bool {
	return m.state != StateUninitialized && m.state != StateShutdown
}

func (m *Manager) log() *slog.Logger {
	return logging.Or(m.logger).With("session", m.session)
}

// State returns the current state.
func (m *Manager) State() State { return m.state }

// Session returns the id allocated by the latest Init.
func (m *Manager) Session() string { return m.session }

// ShutdownReason returns the reason of the last shutdown, or ReasonUnknown
// while live.
func (m *Manager) ShutdownReason() ShutdownReason { return m.reason }

// ShutdownMessage returns the message of the last shutdown.
func (m *Manager) ShutdownMessage() string { return m.message }

// Resumed reports whether the host is known to be resumed.
func (m *Manager) Resumed() bool { return m.resumed }

// RecheckPending reports whether a coalesced recheck is scheduled.
func (m *Manager) RecheckPending() bool { return m.coalescer.Pending() }

// AbsorbedLayouts returns how many layout changes were absorbed by a
// pending recheck since the Manager was built.
func (m *Manager) AbsorbedLayouts() int { return m.coalescer.Absorbed() }

type enabledView struct {
	*Manager
	host     Host
	resource Resource
}

func (v enabledView) Host() Host         { return v.host }
func (v enabledView) Resource() Resource { return v.resource }
