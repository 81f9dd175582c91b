package penpad

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gpucontext"
)

// ErrNoSurface is returned by drawing operations while the Pad has no
// drawing surface, that is before the first enable or after shutdown.
var ErrNoSurface = errors.New("penpad: no drawing surface")

// target is where strokes are painted.
type target interface {
	Context() *gg.Context
	Resize(width, height int) error
	// Present makes the latest drawing visible.
	Present() error
	Close() error
}

func newTarget(provider gpucontext.DeviceProvider, width, height int) (target, error) {
	if provider == nil {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("penpad: invalid surface size %dx%d", width, height)
		}
		return &cpuTarget{dc: gg.NewContext(width, height)}, nil
	}
	c, err := ggcanvas.New(provider, width, height)
	if err != nil {
		return nil, fmt.Errorf("penpad: create canvas: %w", err)
	}
	return &gpuTarget{canvas: c}, nil
}

type cpuTarget struct {
	dc *gg.Context
}

func (t *cpuTarget) Context() *gg.Context { return t.dc }

func (t *cpuTarget) Resize(width, height int) error {
	return t.dc.Resize(width, height)
}

func (t *cpuTarget) Present() error { return nil }

func (t *cpuTarget) Close() error { return t.dc.Close() }

// gpuTarget uploads to a GPU texture on Present.
type gpuTarget struct {
	canvas *ggcanvas.Canvas
}

func (t *gpuTarget) Context() *gg.Context { return t.canvas.Context() }

func (t *gpuTarget) Resize(width, height int) error {
	return t.canvas.Resize(width, height)
}

func (t *gpuTarget) Present() error {
	t.canvas.MarkDirty()
	_, err := t.canvas.Flush()
	return err
}

func (t *gpuTarget) Close() error { return t.canvas.Close() }
