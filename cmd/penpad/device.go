package main

import (
	"log/slog"

	"github.com/gogpu/penpad"
	"github.com/gogpu/penpad/stroke"
)

// logDevice is a Device that logs every call at debug level.
type logDevice struct{}

func (logDevice) log() *slog.Logger { return penpad.Logger().With("device", "replay") }

func (d logDevice) OpenRawDrawing(limit stroke.Rect, exclude []stroke.Rect) {
	d.log().Debug("penpad: open raw drawing", "limit", limit, "exclude", len(exclude))
}

func (d logDevice) CloseRawDrawing() { d.log().Debug("penpad: close raw drawing") }

func (d logDevice) SetRawDrawingEnabled(enabled bool) {
	d.log().Debug("penpad: raw drawing", "enabled", enabled)
}

func (d logDevice) SetFingerTouchEnabled(enabled bool) {
	d.log().Debug("penpad: finger touch", "enabled", enabled)
}

func (d logDevice) SetStrokeStyle(attr stroke.Attr) {
	d.log().Debug("penpad: stroke style", "mode", attr.Mode, "style", attr.Style, "width", attr.Width)
}
