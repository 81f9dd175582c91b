package penpad

import "github.com/gogpu/penpad/stroke"

// Device is the pen digitizer driver.
//
// Calls are serialized by the Pad. A Device must not call back into the
// Pad from these methods; pen samples are fed to the Pad separately
// through BeginStroke, AddPoints, and EndStroke.
type Device interface {
	// OpenRawDrawing starts pen capture inside limit, except over the
	// exclusion rectangles. It may be called again while open to update
	// the regions.
	OpenRawDrawing(limit stroke.Rect, exclude []stroke.Rect)

	// CloseRawDrawing stops pen capture.
	CloseRawDrawing()

	// SetRawDrawingEnabled pauses or resumes pen capture while open.
	SetRawDrawingEnabled(enabled bool)

	// SetFingerTouchEnabled switches finger touch input.
	SetFingerTouchEnabled(enabled bool)

	// SetStrokeStyle sets the brush the device uses for its own preview.
	SetStrokeStyle(attr stroke.Attr)
}

// NopDevice is a Device that ignores every call.
type NopDevice struct{}

func (NopDevice) OpenRawDrawing(stroke.Rect, []stroke.Rect) {}
func (NopDevice) CloseRawDrawing()                          {}
func (NopDevice) SetRawDrawingEnabled(bool)                 {}
func (NopDevice) SetFingerTouchEnabled(bool)                {}
func (NopDevice) SetStrokeStyle(stroke.Attr)                {}
