package effects

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/primitive"
)

const kaleidoscopeSegments = 8

// drawKaleidoscope pastes the source into N wedges around the center, each
// wedge rotated by its index, which yields N-fold radial symmetry.
func drawKaleidoscope(c Canvas, in Input) {
	if in.Frame.Empty() {
		return
	}
	c.LoadScratch(in.Frame)

	cx := float64(in.Frame.Width) / 2
	cy := float64(in.Frame.Height) / 2
	radius := math.Min(float64(in.Frame.Width), float64(in.Frame.Height)) / 2
	step := 2 * math.Pi / kaleidoscopeSegments

	wedge := []gg.Point{
		{X: 0, Y: 0},
		{X: radius * math.Cos(step/2), Y: radius * math.Sin(step/2)},
		{X: radius * math.Cos(-step/2), Y: radius * math.Sin(-step/2)},
	}

	poly := make([]gg.Point, len(wedge))
	for i := range kaleidoscopeSegments {
		local := gg.Translate(cx, cy).Multiply(gg.Rotate(float64(i) * step))
		for j, p := range wedge {
			poly[j] = local.TransformPoint(p)
		}
		c.PasteClipped(poly, local.Multiply(gg.Translate(-cx, -cy)))
	}
}

// Ripple constants.
const (
	rippleWavelength1 = 200.0
	rippleWavelength2 = 150.0
	rippleAmplitude1  = 20.0
	rippleAmplitude2  = 15.0
	rippleSpacing     = 5
	rippleReflection  = 0.3
	rippleBlur        = 2.0
)

var rippleWash = gg.RGBA2(0, 100.0/255, 1, 0.2)

// drawWaterRipple samples the source through two sinusoidal displacements
// on a fixed lattice, pulled up by a reflection offset, and draws blue-shifted
// triangles whose alpha follows the wave height. A blue wash goes down first
// and the whole surface is blurred last.
func drawWaterRipple(c Canvas, in Input) {
	if in.Frame.Empty() {
		return
	}
	c.LoadScratch(in.Frame)
	src := c.Scratch()
	t := in.seconds()
	h := float64(in.Frame.Height)

	c.FillRect(0, 0, float64(in.Frame.Width), h, rippleWash)

	grid.Traverse(in.Frame, rippleSpacing, func(s grid.Sample) {
		x, y := float64(s.X), float64(s.Y)

		dx1 := math.Sin(y/rippleWavelength1+t) * rippleAmplitude1
		dy1 := math.Cos(x/rippleWavelength1+t) * rippleAmplitude1
		dx2 := math.Sin(x/rippleWavelength2+t*1.5) * rippleAmplitude2
		dy2 := math.Cos(y/rippleWavelength2+t*1.5) * rippleAmplitude2

		sx := x + dx1 + dx2
		sy := math.Max(0, y+dy1+dy2-h*rippleReflection)

		px := grid.SampleAt(src, int(math.Floor(sx)), int(math.Floor(sy)))

		wave := (math.Sin(x/rippleWavelength1+t)+math.Cos(y/rippleWavelength2+t*1.5))*0.5 + 0.5
		alpha := clampUnit(0.4 + wave*0.6)
		fill := gg.RGBA2(
			clampUnit((float64(px.R)*0.6+100*wave)/255),
			clampUnit((float64(px.G)*0.7+100*wave)/255),
			clampUnit(float64(px.B)*1.3/255),
			alpha,
		)

		primitive.Draw(c, primitive.Triangle{
			X:     x,
			Y:     y,
			Size:  px.Brightness / 255 * rippleSpacing * 1.2,
			Alpha: alpha,
			Fill:  &fill,
		}, in.Now)
	})

	c.Blur(rippleBlur)
}

// Neon constants.
const (
	neonThreshold = 128
	neonGlow      = 15.0
	neonAlpha     = 0.8
)

var neonGlowColor = gg.RGBA2(0, 1, 1, 0.8)

// drawNeon draws only bright cells, hued by their horizontal position, on a
// glow layer.
func drawNeon(c Canvas, in Input) {
	if in.Frame.Empty() {
		return
	}
	w := float64(in.Frame.Width)
	ts := float64(in.TriangleSize)

	c.BeginGlow(neonGlow, neonGlowColor)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		if s.Brightness <= neonThreshold {
			return
		}
		x := float64(s.X)
		fill := primitive.HSLA(x/w*360, 1, 0.7, neonAlpha)
		primitive.Draw(c, primitive.Triangle{
			X:      x,
			Y:      float64(s.Y),
			Size:   brightnessSize(s, ts),
			Alpha:  neonAlpha,
			Policy: primitive.PolicyMoving,
			Fill:   &fill,
		}, in.Now)
	})
	c.EndGlow()
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
