// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import "fmt"

// Host is the object that owns a surface, such as a window or activity.
// Events are matched to the tracked host by HostID.
type Host interface {
	HostID() string
}

// ResumeReporter is implemented by hosts that know whether they are
// currently resumed. Init uses it to seed the resumed flag; otherwise the
// host is assumed not resumed until an EventResumed arrives or the
// resource reports a layout pass.
type ResumeReporter interface {
	Resumed() bool
}

// Resource is a surface with a size that changes through layout.
type Resource interface {
	// Size returns the current width and height in pixels.
	Size() (width, height int)

	// OnLayoutChange registers fn to be called after every layout pass.
	// The returned function removes the registration.
	OnLayoutChange(fn func()) (cancel func())
}

// Bundle is saved instance state passed through to hooks unchanged.
type Bundle map[string][]byte

// EventKind identifies a host event.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventStarted
	EventResumed
	EventPaused
	EventStopped
	EventDestroyed
	EventSaveState

	// Memory pressure notifications. Accepted and logged, no behavior.
	EventConfigurationChanged
	EventLowMemory
	EventTrimMemory
)

var eventNames = map[EventKind]string{
	EventCreated:              "created",
	EventStarted:              "started",
	EventResumed:              "resumed",
	EventPaused:               "paused",
	EventStopped:              "stopped",
	EventDestroyed:            "destroyed",
	EventSaveState:            "save-state",
	EventConfigurationChanged: "configuration-changed",
	EventLowMemory:            "low-memory",
	EventTrimMemory:           "trim-memory",
}

// String returns the event name.
func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind returns the kind whose String is s.
func ParseEventKind(s string) (EventKind, bool) {
	for k, name := range eventNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Event is a host lifecycle notification.
type Event struct {
	Kind EventKind

	// Host is the host the event is about. nil matches any host.
	Host Host

	// Bundle accompanies EventCreated and EventSaveState.
	Bundle Bundle

	// TrimLevel accompanies EventTrimMemory.
	TrimLevel int
}

// EventSource delivers host events on the dispatch goroutine, at most once
// per host transition.
type EventSource interface {
	Subscribe(fn func(Event)) (cancel func())
}
