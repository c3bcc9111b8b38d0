package camfx

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/gogpu/camfx/internal/grid"
)

// Frame is one captured video frame: row-major RGBA, 4 bytes per pixel, no
// row padding. Frames are read-only once handed to the pipeline.
type Frame struct {
	Width, Height int
	Pix           []byte

	// Seq is the capture sequence number assigned by the source.
	Seq uint64

	// Timestamp is the capture time.
	Timestamp time.Time

	// TraceID identifies the frame in logs. Sources may leave it empty.
	TraceID string
}

// NewFrame wraps pix as a w x h frame. It returns ErrFrameSize unless
// len(pix) == w*h*4. A zero-sized frame is valid and renders nothing.
func NewFrame(w, h int, pix []byte) (*Frame, error) {
	f := &Frame{Width: w, Height: h, Pix: pix}
	if err := f.checkSize(); err != nil {
		return nil, err
	}
	return f, nil
}

// FrameFromImage converts img into a new frame.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == b.Dx()*4 {
		pix := make([]byte, len(rgba.Pix))
		copy(pix, rgba.Pix)
		return &Frame{Width: b.Dx(), Height: b.Dy(), Pix: pix}
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Frame{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

func (f *Frame) checkSize() error {
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrFrameSize, f.Width, f.Height)
	}
	if want := f.Width * f.Height * 4; len(f.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrFrameSize, f.Width, f.Height, want, len(f.Pix))
	}
	return nil
}

// Validate checks the frame before it enters the pipeline. It reports
// ErrFrameSize for a wrong pixel length and ErrSampleOutOfRange for a frame
// with pixels but no area.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrSampleOutOfRange)
	}
	if (f.Width == 0 || f.Height == 0) && len(f.Pix) > 0 {
		return fmt.Errorf("%w: %d bytes in a %dx%d frame", ErrSampleOutOfRange, len(f.Pix), f.Width, f.Height)
	}
	return f.checkSize()
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// SameSize reports whether f and o have equal dimensions.
func (f *Frame) SameSize(o *Frame) bool {
	return f != nil && o != nil && f.Width == o.Width && f.Height == o.Height
}

// RGB returns the color at (x, y), clamped into the frame.
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	return grid.At(f.buffer(), x, y)
}

// Brightness returns the mean of the RGB channels at (x, y), in [0, 255].
func (f *Frame) Brightness(x, y int) float64 {
	return grid.Brightness(f.buffer(), x, y)
}

func (f *Frame) buffer() grid.Buffer {
	if f == nil {
		return grid.Buffer{}
	}
	return grid.Buffer{Width: f.Width, Height: f.Height, Pix: f.Pix}
}
