// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package props

import "fmt"

// Source identifies the layer whose write triggered a recomputation.
type Source int

const (
	// SourceCur is a recomputation not caused by a single layer (Reset).
	SourceCur Source = iota
	// SourceSys is a write to the system layer.
	SourceSys
	// SourceUsr is a write to the user layer.
	SourceUsr
)

// String returns the layer name.
func (s Source) String() string {
	switch s {
	case SourceCur:
		return "CUR"
	case SourceSys:
		return "SYS"
	case SourceUsr:
		return "USR"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Delta records one change of a property's effective value.
// Usr and Sys are nil when the layer is unset.
type Delta[T comparable] struct {
	Source Source
	Cur    T
	Prev   T
	Usr    *T
	Sys    *T
}

// String describes the change.
func (d Delta[T]) String() string {
	return fmt.Sprintf("%s triggered '%v' to '%v' -- cur='%v', sys='%s', usr='%s'",
		d.Source, d.Prev, d.Cur, d.Cur, optString(d.Sys), optString(d.Usr))
}

func optString[T any](v *T) string {
	if v == nil {
		return "<unset>"
	}
	return fmt.Sprint(*v)
}
