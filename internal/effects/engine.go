// Package effects implements the stylization effects.
//
// Every effect draws through a [Canvas] and nothing else. The engine clears
// the canvas to opaque black, then dispatches to exactly one handler.
// Randomness and time are taken from the [Input] so that callers can make a
// tick reproducible.
package effects

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/filter"
	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/motion"
	"github.com/gogpu/camfx/internal/primitive"
)

// Canvas is the set of compositing primitives effects may use.
type Canvas interface {
	primitive.Canvas

	Clear(col gg.RGBA)
	FillCircle(x, y, r float64, col gg.RGBA)
	DrawGlyph(s string, x, y, size float64, col gg.RGBA)

	BlendPrevious(prev *gg.Pixmap, alpha float64)
	LoadScratch(buf grid.Buffer)
	Scratch() grid.Buffer
	PasteClipped(poly []gg.Point, m gg.Matrix)

	Blur(radius float64)
	ApplyColorMatrix(f *filter.ColorMatrixFilter)
	BeginGlow(radius float64, col gg.RGBA)
	EndGlow()
}

// Input is everything a handler may read during one tick.
type Input struct {
	Frame grid.Buffer

	TriangleSize int
	Spacing      int

	// Flags are the motion flags for this tick.
	Flags motion.Flags

	// Positions are the cell positions recorded on the previous tick.
	Positions motion.Positions

	// Trail is the previous output surface, or nil.
	Trail *gg.Pixmap

	Now  time.Time
	Rand *rand.Rand
}

func (in Input) seconds() float64 {
	return float64(in.Now.UnixNano()) / 1e9
}

// Output carries state produced by a handler.
type Output struct {
	// Positions is set by effects that track cell positions.
	Positions motion.Positions
}

// Engine dispatches effects.
type Engine struct {
	vintage *filter.ColorMatrixFilter
}

// NewEngine creates an engine.
func NewEngine() *Engine {
	return &Engine{
		vintage: filter.NewSepiaFilter(0.8).
			Then(filter.NewContrastFilter(1.2)).
			Then(filter.NewBrightnessFilter(0.8)),
	}
}

// Render clears c to opaque black and draws effect k for in.
// It panics on an unknown variant.
func (e *Engine) Render(k Kind, in Input, c Canvas) Output {
	if in.Spacing < 1 {
		in.Spacing = 1
	}
	if in.Rand == nil {
		in.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.Clear(gg.Black)

	switch k {
	case Default:
		drawDefault(c, in)
	case MotionBlur:
		return drawMotionBlur(c, in)
	case Pixelate:
		drawPixelate(c, in)
	case Kaleidoscope:
		drawKaleidoscope(c, in)
	case WaterRipple:
		drawWaterRipple(c, in)
	case ASCIIArt:
		drawASCII(c, in)
	case Neon:
		drawNeon(c, in)
	case Glitch:
		drawGlitch(c, in)
	case Vintage:
		drawVintage(c, in, e.vintage)
	case Matrix:
		drawMatrix(c, in)
	case Circles:
		drawCircles(c, in)
	default:
		panic(fmt.Sprintf("effects: unknown kind %d", k))
	}
	return Output{}
}

// brightnessSize scales base by the sample's brightness fraction.
func brightnessSize(s grid.Sample, base float64) float64 {
	return s.Brightness / 255 * base
}

func rgb8(r, g, b uint8) gg.RGBA {
	return gg.RGB(float64(r)/255, float64(g)/255, float64(b)/255)
}
