package effects

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/primitive"
)

// asciiRamp is ordered dark to light.
const asciiRamp = "@#S%?*+;:,."

// drawASCII draws one ramp character per cell, white, with the cell size as
// font size and the baseline at the bottom of the cell.
func drawASCII(c Canvas, in Input) {
	cell := float64(in.Spacing)
	last := float64(len(asciiRamp) - 1)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		i := int(math.Floor(s.Brightness / 255 * last))
		c.DrawGlyph(asciiRamp[i:i+1], float64(s.X), float64(s.Y)+cell, cell, gg.White)
	})
}

// Glitch constants.
const (
	glitchChance    = 0.05
	glitchAmplitude = 10.0
)

// drawGlitch shifts red and green copies of random cells sideways by a
// per-row offset; every other cell is a plain triangle.
func drawGlitch(c Canvas, in Input) {
	t := in.seconds()
	amplitude := math.Sin(t) * glitchAmplitude
	sp := float64(in.Spacing)
	ts := float64(in.TriangleSize)

	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		x, y := float64(s.X), float64(s.Y)
		if in.Rand.Float64() < glitchChance {
			offset := math.Sin(y*0.1+t) * amplitude
			c.FillRect(x+offset, y, sp, sp, rgb8(s.R, 0, 0))
			c.FillRect(x-offset, y, sp, sp, rgb8(0, s.G, 0))
			c.FillRect(x, y, sp, sp, rgb8(0, 0, s.B))
			return
		}
		primitive.Draw(c, primitive.Triangle{X: x, Y: y, Size: brightnessSize(s, ts), Alpha: 1}, in.Now)
	})
}

const matrixThreshold = 50

// drawMatrix draws a random binary digit in green wherever the cell is
// brighter than the threshold, with alpha following brightness.
func drawMatrix(c Canvas, in Input) {
	size := float64(in.Spacing)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		if s.Brightness <= matrixThreshold {
			return
		}
		digit := "0"
		if in.Rand.IntN(2) == 1 {
			digit = "1"
		}
		c.DrawGlyph(digit, float64(s.X), float64(s.Y), size, gg.RGBA2(0, 1, 0, s.Brightness/255))
	})
}
