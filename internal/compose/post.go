package compose

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/filter"
)

// Blur applies a Gaussian blur of the given radius to the whole surface.
func (c *Compositor) Blur(radius float64) {
	if !c.ready() {
		return
	}
	c.counts.Filter++
	filter.NewBlurFilter(radius).Apply(c.surface, c.surface, c.surface.Bounds())
}

// ApplyColorMatrix runs f over the whole surface.
func (c *Compositor) ApplyColorMatrix(f *filter.ColorMatrixFilter) {
	if !c.ready() || f == nil {
		return
	}
	c.counts.Filter++
	f.Apply(c.surface, c.surface, c.surface.Bounds())
}

// BeginGlow redirects drawing to a transparent layer until EndGlow, which
// composites the layer over the surface with a blurred halo of col beneath
// it. Nested calls are ignored.
func (c *Compositor) BeginGlow(radius float64, col gg.RGBA) {
	if !c.ready() || c.glow != nil {
		return
	}
	if c.layer == nil {
		c.layer = gg.NewPixmap(c.width, c.height)
		c.layerCtx = gg.NewContext(c.width, c.height, gg.WithPixmap(c.layer))
	} else {
		c.layer.Clear(gg.Transparent)
	}
	c.glow = filter.NewGlowFilter(radius, col)
	c.target = c.layerCtx
}

// EndGlow composites the glow layer and restores drawing to the surface.
func (c *Compositor) EndGlow() {
	if c.glow == nil {
		return
	}
	c.target = c.dc
	if c.err == nil {
		c.counts.Filter++
		c.glow.Apply(c.layer, c.surface, c.surface.Bounds())
	}
	c.glow = nil
}

// Glowing reports whether a glow layer is open.
func (c *Compositor) Glowing() bool {
	return c.glow != nil
}
