package penpad

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/penpad/lifecycle"
)

// Image returns a copy of the surface, or nil when there is none.
func (p *Pad) Image() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target == nil {
		return nil
	}
	src := p.target.Context().Image()
	dst := image.NewRGBA(src.Bounds())
	xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return dst
}

// EncodePNG writes the surface as PNG to w.
func (p *Pad) EncodePNG(w io.Writer) error {
	img := p.Image()
	if img == nil {
		return ErrNoSurface
	}
	return png.Encode(w, img)
}

func (p *Pad) onSave(_ lifecycle.Started, b lifecycle.Bundle) {
	if b == nil {
		return
	}
	tw, th := p.opts.cfg.Thumbnail.Width, p.opts.cfg.Thumbnail.Height

	p.mu.Lock()
	n := p.history.Len()
	var thumb *image.RGBA
	if p.target != nil {
		thumb = thumbnail(p.target.Context().Image(), tw, th)
	}
	p.mu.Unlock()

	b[BundleStrokes] = []byte(strconv.Itoa(n))
	if thumb == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		p.logger().Warn("penpad: encode thumbnail", "err", err)
		return
	}
	b[BundleThumbnail] = buf.Bytes()
}

// thumbnail scales src to fit within w x h, keeping its aspect ratio.
func thumbnail(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 {
		return nil
	}
	tw, th := w, sb.Dy()*w/sb.Dx()
	if th > h {
		tw, th = sb.Dx()*h/sb.Dy(), h
	}
	tw, th = max(tw, 1), max(th, 1)
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}
