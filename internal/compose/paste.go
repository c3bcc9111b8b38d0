package compose

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/grid"
)

// PasteClipped copies the scratch surface onto the output through m, which
// maps scratch coordinates to surface coordinates, writing only pixels whose
// centers fall inside poly. Each destination pixel is inverse-mapped and
// sampled nearest, clamped into the scratch frame.
func (c *Compositor) PasteClipped(poly []gg.Point, m gg.Matrix) {
	if !c.ready() || c.scratch == nil || len(poly) < 3 {
		return
	}
	c.counts.Paste++

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	x0 := max(0, int(math.Floor(minX)))
	y0 := max(0, int(math.Floor(minY)))
	x1 := min(c.width, int(math.Ceil(maxX)))
	y1 := min(c.height, int(math.Ceil(maxY)))

	inv := m.Invert()
	src := c.scratch.Data()
	dst := c.surface.Data()

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := gg.Pt(float64(x)+0.5, float64(y)+0.5)
			if !inside(poly, p) {
				continue
			}
			s := inv.TransformPoint(p)
			si := grid.Index(c.width, c.height, int(math.Floor(s.X)), int(math.Floor(s.Y)))
			di := (y*c.width + x) * 4
			copy(dst[di:di+4], src[si:si+4])
		}
	}
}

// inside reports whether p lies in poly under the even-odd rule.
func inside(poly []gg.Point, p gg.Point) bool {
	in := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
		j = i
	}
	return in
}
