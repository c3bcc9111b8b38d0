package effects

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/motion"
	"github.com/gogpu/camfx/internal/primitive"
)

const (
	trailAlpha     = 0.8
	movingBoost    = 1.3
	echoCount      = 3
	echoSizeFactor = 0.8
)

func drawDefault(c Canvas, in Input) {
	ts := float64(in.TriangleSize)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		primitive.Draw(c, primitive.Triangle{
			X:     float64(s.X),
			Y:     float64(s.Y),
			Size:  brightnessSize(s, ts),
			Alpha: 1,
		}, in.Now)
	})
}

// drawMotionBlur draws the previous output as a ghost, then one triangle per
// cell; moving cells are enlarged and trail three fading echoes along their
// displacement.
func drawMotionBlur(c Canvas, in Input) Output {
	if in.Trail != nil {
		c.BlendPrevious(in.Trail, trailAlpha)
	}

	positions := make(motion.Positions)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		k := motion.Key{X: s.X, Y: s.Y}
		x, y := float64(s.X), float64(s.Y)

		moving := in.Flags.Moving(k)
		base := float64(in.TriangleSize)
		policy := primitive.PolicyStatic
		if moving {
			base *= movingBoost
			policy = primitive.PolicyMoving
		}
		size := brightnessSize(s, base)

		prev := in.Positions.Lookup(k)
		dx, dy := x-prev.X, y-prev.Y

		primitive.Draw(c, primitive.Triangle{X: x, Y: y, Size: size, Alpha: 1, Policy: policy}, in.Now)

		if moving {
			for i := 1; i <= echoCount; i++ {
				fi := float64(i)
				primitive.Draw(c, primitive.Triangle{
					X:      x - dx*fi*0.5,
					Y:      y - dy*fi*fi*0.5,
					Size:   size * echoSizeFactor,
					Alpha:  1 - fi*0.2,
					Policy: primitive.PolicyMoving,
				}, in.Now)
			}
		}

		positions[k] = motion.Point{X: x, Y: y}
	})

	return Output{Positions: positions}
}

// drawPixelate fills 2*spacing blocks with the color of their top-left pixel.
func drawPixelate(c Canvas, in Input) {
	block := in.Spacing * 2
	grid.Traverse(in.Frame, block, func(s grid.Sample) {
		c.FillRect(float64(s.X), float64(s.Y), float64(block), float64(block), rgb8(s.R, s.G, s.B))
	})
}

// drawCircles draws one circle per cell whose radius follows brightness.
// Moving cells grow by half and take the cycling hue.
func drawCircles(c Canvas, in Input) {
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		x, y := float64(s.X), float64(s.Y)
		moving := in.Flags.Moving(motion.Key{X: s.X, Y: s.Y})

		diameter := 2.5 * float64(in.TriangleSize)
		col := gg.White
		if moving {
			diameter *= 1.5
			col = primitive.HSLA(primitive.Hue(in.Now, x, y), 1, 0.5, 1)
		}

		c.FillCircle(x, y, brightnessSize(s, diameter/2), col)
	})
}
