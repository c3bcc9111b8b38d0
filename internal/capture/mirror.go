package capture

import (
	"context"

	"github.com/gogpu/camfx"
)

// Mirror flips every frame of a source horizontally, the way a selfie
// preview is shown.
type Mirror struct {
	src camfx.FrameSource
}

// NewMirror wraps src.
func NewMirror(src camfx.FrameSource) *Mirror {
	return &Mirror{src: src}
}

// Next returns the next frame of the wrapped source, flipped. Errors pass
// through unchanged.
func (m *Mirror) Next(ctx context.Context) (*camfx.Frame, error) {
	f, err := m.src.Next(ctx)
	if err != nil {
		return nil, err
	}
	out := *f
	out.Pix = Flip(f.Pix, f.Width, f.Height)
	return &out, nil
}

// Flip returns a horizontally mirrored copy of a w x h RGBA buffer.
func Flip(pix []byte, w, h int) []byte {
	out := make([]byte, len(pix))
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		copy(out, pix)
		return out
	}
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			src := row + x*4
			dst := row + (w-1-x)*4
			copy(out[dst:dst+4], pix[src:src+4])
		}
	}
	return out
}
