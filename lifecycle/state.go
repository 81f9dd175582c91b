// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import "fmt"

// State is the state of a Manager.
type State int

const (
	// StateUninitialized is the state before the first Init.
	StateUninitialized State = iota
	// StateStarted means host and resource are wired but not yet enabled.
	StateStarted
	// StateEnabled means the surface is ready for use.
	StateEnabled
	// StateDisabled means the surface was enabled and is temporarily not.
	StateDisabled
	// StateShutdown is terminal until the next Init.
	StateShutdown
)

var stateNames = [...]string{
	StateUninitialized: "Uninitialized",
	StateStarted:       "Started",
	StateEnabled:       "Enabled",
	StateDisabled:      "Disabled",
	StateShutdown:      "Shutdown",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ShutdownReason classifies why a Manager shut down.
type ShutdownReason int

const (
	// ReasonUnknown is the value before any shutdown. It is never reported
	// by a shutdown.
	ReasonUnknown ShutdownReason = iota
	// ReasonActivityDestroy means the host was destroyed. Expected.
	ReasonActivityDestroy
	// ReasonActivityLost means the host reference stopped resolving while
	// an action needed it.
	ReasonActivityLost
	// ReasonSurfaceLost means the resource reference stopped resolving.
	ReasonSurfaceLost
	// ReasonManualShutdown means the owner asked for it, including the
	// implicit shutdown of a re-used Manager. Expected.
	ReasonManualShutdown
)

var reasonNames = [...]string{
	ReasonUnknown:         "Unknown",
	ReasonActivityDestroy: "ActivityDestroy",
	ReasonActivityLost:    "ActivityLost",
	ReasonSurfaceLost:     "SurfaceLost",
	ReasonManualShutdown:  "ManualShutdown",
}

// String returns the reason name.
func (r ShutdownReason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("ShutdownReason(%d)", int(r))
}

// Expected reports whether the reason is part of a normal lifecycle.
// Owners typically log or alert only on unexpected reasons.
func (r ShutdownReason) Expected() bool {
	return r == ReasonActivityDestroy || r == ReasonManualShutdown
}

// Transition describes one state change of a Manager.
type Transition struct {
	Session string
	From    State
	To      State

	// Reason is set when To is StateShutdown.
	Reason ShutdownReason
}
