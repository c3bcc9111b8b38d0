// Package capture provides frame sources that need no camera: an animated
// test pattern, a looping still-image sequence and a mirroring wrapper.
package capture

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/camfx"
)

// Default capture size, the resolution the webcam is asked for.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// barColors are the seven SMPTE color bars.
var barColors = [7][3]uint8{
	{192, 192, 192}, // gray
	{192, 192, 0},   // yellow
	{0, 192, 192},   // cyan
	{0, 192, 0},     // green
	{192, 0, 192},   // magenta
	{192, 0, 0},     // red
	{0, 0, 192},     // blue
}

// Pattern renders animated color bars: a vertical brightness ramp with a
// white block sweeping left to right. Frame n is a pure function of n, so
// tests get the same motion every run.
type Pattern struct {
	width, height int

	// Step is how far the block moves per frame, in pixels.
	Step int

	now func() time.Time
	seq atomic.Uint64
}

// NewPattern creates a w x h pattern source. Negative sizes are treated as
// zero.
func NewPattern(w, h int) *Pattern {
	return &Pattern{
		width:  max(w, 0),
		height: max(h, 0),
		Step:   8,
		now:    time.Now,
	}
}

// Next returns the next frame. It only fails when ctx is done.
func (p *Pattern) Next(ctx context.Context) (*camfx.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seq := p.seq.Add(1)
	f := p.Render(seq)
	f.Timestamp = p.now()
	f.TraceID = uuid.NewString()
	return f, nil
}

// Render draws frame seq.
func (p *Pattern) Render(seq uint64) *camfx.Frame {
	w, h := p.width, p.height
	pix := make([]byte, w*h*4)

	barWidth := max(w/7, 1)
	for y := 0; y < h; y++ {
		// Darken towards the bottom so rows differ in brightness.
		shade := 1 - 0.5*float64(y)/float64(max(h, 1))
		for x := 0; x < w; x++ {
			c := barColors[min(x/barWidth, 6)]
			i := (y*w + x) * 4
			pix[i] = uint8(float64(c[0]) * shade)
			pix[i+1] = uint8(float64(c[1]) * shade)
			pix[i+2] = uint8(float64(c[2]) * shade)
			pix[i+3] = 255
		}
	}

	if w > 0 && h > 0 {
		size := max(min(w, h)/4, 1)
		bx := int(seq*uint64(max(p.Step, 0))) % w
		by := (h - size) / 2
		for y := by; y < by+size; y++ {
			for x := bx; x < bx+size && x < w; x++ {
				i := (y*w + x) * 4
				pix[i], pix[i+1], pix[i+2] = 255, 255, 255
			}
		}
	}

	return &camfx.Frame{Width: w, Height: h, Pix: pix, Seq: seq}
}
