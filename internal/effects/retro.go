package effects

import (
	"github.com/gogpu/camfx/internal/filter"
	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/primitive"
)

const vintageAlpha = 0.7

// drawVintage draws jittered translucent triangles and tones the result
// with sepia, contrast and brightness.
func drawVintage(c Canvas, in Input, tone *filter.ColorMatrixFilter) {
	if in.Frame.Empty() {
		return
	}
	ts := float64(in.TriangleSize)
	grid.Traverse(in.Frame, in.Spacing, func(s grid.Sample) {
		noise := in.Rand.Float64()*0.2 + 0.8
		primitive.Draw(c, primitive.Triangle{
			X:     float64(s.X),
			Y:     float64(s.Y),
			Size:  brightnessSize(s, ts) * noise,
			Alpha: vintageAlpha,
		}, in.Now)
	})
	c.ApplyColorMatrix(tone)
}
