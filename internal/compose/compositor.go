package compose

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/camfx/internal/filter"
	"github.com/gogpu/camfx/internal/grid"
)

// Counts tallies the render commands issued since the last Begin.
type Counts struct {
	Clear   int
	Rect    int
	Polygon int
	Circle  int
	Glyph   int
	Blend   int
	Paste   int
	Filter  int
}

// Total returns the number of commands of every kind.
func (c Counts) Total() int {
	return c.Clear + c.Rect + c.Polygon + c.Circle + c.Glyph + c.Blend + c.Paste + c.Filter
}

// Option configures a Compositor.
type Option func(*options)

type options struct {
	fonts *text.FontSource
}

// WithFontSource sets the font used for glyphs. The default is Go Mono.
func WithFontSource(src *text.FontSource) Option {
	return func(o *options) {
		o.fonts = src
	}
}

// Compositor draws onto a pooled output surface.
type Compositor struct {
	width, height int

	surface *gg.Pixmap
	dc      *gg.Context

	scratch *gg.Pixmap

	layer    *gg.Pixmap
	layerCtx *gg.Context
	glow     *filter.GlowFilter

	// target is dc, or layerCtx between BeginGlow and EndGlow.
	target *gg.Context

	fonts   *text.FontSource
	facesMu sync.Mutex
	faces   map[int]text.Face

	counts Counts
	err    error
}

// New creates a compositor. It has no surface until the first Begin.
func New(opts ...Option) (*Compositor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.fonts == nil {
		src, err := text.NewFontSource(gomono.TTF)
		if err != nil {
			return nil, fmt.Errorf("compose: load monospace font: %w", err)
		}
		o.fonts = src
	}

	return &Compositor{
		fonts: o.fonts,
		faces: make(map[int]text.Face),
	}, nil
}

// Begin prepares a w x h surface for a new tick and resets the counters and
// the sticky error. Buffers are reused while the size stays the same.
func (c *Compositor) Begin(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if c.surface == nil || w != c.width || h != c.height {
		c.width, c.height = w, h
		c.surface = gg.NewPixmap(w, h)
		c.dc = nil
		if w > 0 && h > 0 {
			c.dc = gg.NewContext(w, h, gg.WithPixmap(c.surface))
		}
		c.scratch = nil
		c.layer = nil
		c.layerCtx = nil
	}
	c.target = c.dc
	c.glow = nil
	c.counts = Counts{}
	c.err = nil
}

// Width returns the surface width.
func (c *Compositor) Width() int { return c.width }

// Height returns the surface height.
func (c *Compositor) Height() int { return c.height }

// Surface returns the output pixmap. It is overwritten by the next tick.
func (c *Compositor) Surface() *gg.Pixmap { return c.surface }

// Counts returns the commands issued since Begin.
func (c *Compositor) Counts() Counts { return c.counts }

// Err returns the first drawing error since Begin.
func (c *Compositor) Err() error { return c.err }

func (c *Compositor) ready() bool {
	return c.err == nil && c.dc != nil && c.width > 0 && c.height > 0
}

func (c *Compositor) fail(op string, err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("compose: %s: %w", op, err)
	}
}

// Clear fills the whole surface with col.
func (c *Compositor) Clear(col gg.RGBA) {
	if c.surface == nil {
		return
	}
	c.counts.Clear++
	c.surface.Clear(col)
}

// FillRect fills an axis-aligned rectangle.
func (c *Compositor) FillRect(x, y, w, h float64, col gg.RGBA) {
	if !c.ready() {
		return
	}
	c.counts.Rect++
	c.target.SetRGBA(col.R, col.G, col.B, col.A)
	c.target.DrawRectangle(x, y, w, h)
	c.fail("fill rect", c.target.Fill())
}

// FillPolygon fills the closed polygon through pts.
func (c *Compositor) FillPolygon(pts []gg.Point, col gg.RGBA) {
	if !c.ready() || len(pts) < 3 {
		return
	}
	c.counts.Polygon++
	c.target.SetRGBA(col.R, col.G, col.B, col.A)
	c.target.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.target.LineTo(p.X, p.Y)
	}
	c.target.ClosePath()
	c.fail("fill polygon", c.target.Fill())
}

// FillCircle fills a circle of radius r centered on (x, y).
func (c *Compositor) FillCircle(x, y, r float64, col gg.RGBA) {
	if !c.ready() || r <= 0 {
		return
	}
	c.counts.Circle++
	c.target.SetRGBA(col.R, col.G, col.B, col.A)
	c.target.DrawCircle(x, y, r)
	c.fail("fill circle", c.target.Fill())
}

// DrawGlyph draws s in the monospace font at the given pixel size with its
// baseline at y.
func (c *Compositor) DrawGlyph(s string, x, y, size float64, col gg.RGBA) {
	if !c.ready() || size <= 0 {
		return
	}
	c.counts.Glyph++
	c.target.SetFont(c.face(size))
	c.target.SetRGBA(col.R, col.G, col.B, col.A)
	c.target.DrawString(s, x, y)
}

// face returns a cached face for size, keyed in tenths of a pixel. Sizes
// come from the spacing range, so the map stays small.
func (c *Compositor) face(size float64) text.Face {
	key := int(size*10 + 0.5)

	c.facesMu.Lock()
	defer c.facesMu.Unlock()

	f, ok := c.faces[key]
	if !ok {
		f = c.fonts.Face(size)
		c.faces[key] = f
	}
	return f
}

// BlendPrevious composites prev over the surface with the given alpha, in
// gg's premultiplied storage. A nil prev or one of a different size is
// ignored.
func (c *Compositor) BlendPrevious(prev *gg.Pixmap, alpha float64) {
	if !c.ready() || prev == nil || prev.Width() != c.width || prev.Height() != c.height {
		return
	}
	c.counts.Blend++

	a := clampUnit(alpha)
	src := prev.Data()
	dst := c.surface.Data()
	for i := 0; i < len(dst); i += 4 {
		sa := a * float64(src[i+3]) / 255
		inv := 1 - sa
		dst[i+0] = toByte(float64(src[i+0])*a + float64(dst[i+0])*inv)
		dst[i+1] = toByte(float64(src[i+1])*a + float64(dst[i+1])*inv)
		dst[i+2] = toByte(float64(src[i+2])*a + float64(dst[i+2])*inv)
		dst[i+3] = toByte(255*sa + float64(dst[i+3])*inv)
	}
}

// Snapshot copies the surface into dst, reallocating it when its size does
// not match, and returns the copy.
func (c *Compositor) Snapshot(dst *gg.Pixmap) *gg.Pixmap {
	if c.surface == nil {
		return dst
	}
	if dst == nil || dst.Width() != c.width || dst.Height() != c.height {
		dst = gg.NewPixmap(c.width, c.height)
	}
	copy(dst.Data(), c.surface.Data())
	return dst
}

// LoadScratch copies the frame into the pooled scratch surface.
func (c *Compositor) LoadScratch(buf grid.Buffer) {
	if c.surface == nil {
		return
	}
	if c.scratch == nil {
		c.scratch = gg.NewPixmap(c.width, c.height)
	}
	d := c.scratch.Data()
	n := copy(d, buf.Pix)
	clear(d[n:])
}

// Scratch returns a read-only view of the scratch surface.
func (c *Compositor) Scratch() grid.Buffer {
	if c.scratch == nil {
		return grid.Buffer{}
	}
	return grid.Buffer{Width: c.width, Height: c.height, Pix: c.scratch.Data()}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
