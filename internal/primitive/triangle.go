// Package primitive draws the triangle that most effects are built from.
package primitive

import (
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is the part of the compositor a triangle needs.
type Canvas interface {
	FillRect(x, y, w, h float64, col gg.RGBA)
	FillPolygon(pts []gg.Point, col gg.RGBA)
}

// Policy selects the fill of a triangle without an explicit fill.
type Policy uint8

const (
	// PolicyStatic fills white at the triangle's alpha.
	PolicyStatic Policy = iota
	// PolicyMoving fills a hue that cycles with time and position.
	PolicyMoving
)

// Triangle is one upward-pointing equilateral triangle centered on X with
// its apex at Y-h/2 and its base at Y+h/2.
type Triangle struct {
	X, Y float64
	Size float64

	// Alpha applies to the policy fills. It is not applied to Fill.
	Alpha float64

	Policy Policy

	// Fill, when set, overrides the policy.
	Fill *gg.RGBA
}

// Vertices returns the apex, bottom-left and bottom-right corners.
func (t Triangle) Vertices() [3]gg.Point {
	h := t.Size * math.Sqrt(3) / 2
	return [3]gg.Point{
		{X: t.X, Y: t.Y - h/2},
		{X: t.X - t.Size/2, Y: t.Y + h/2},
		{X: t.X + t.Size/2, Y: t.Y + h/2},
	}
}

// Draw renders t. A size below 1 degenerates to a 1x1 rectangle at (X, Y)
// filled with Fill, or else a gray of level Size at Alpha: the pixel carries
// the coverage the sub-pixel triangle would have had, so a zero-size
// triangle leaves an opaque black dot.
//
// The degenerate fill deliberately ignores Policy. An all-black frame must
// render as nothing but 1x1 black pixels, which white or a moving hue would
// break.
func Draw(c Canvas, t Triangle, now time.Time) {
	if t.Size < 1 {
		v := max(t.Size, 0)
		col := gg.RGBA2(v, v, v, t.Alpha)
		if t.Fill != nil {
			col = *t.Fill
		}
		c.FillRect(t.X, t.Y, 1, 1, col)
		return
	}

	v := t.Vertices()
	c.FillPolygon(v[:], t.color(now))
}

func (t Triangle) color(now time.Time) gg.RGBA {
	switch {
	case t.Fill != nil:
		return *t.Fill
	case t.Policy == PolicyMoving:
		return HSLA(Hue(now, t.X, t.Y), 1, 0.5, t.Alpha)
	default:
		return gg.RGBA2(1, 1, 1, t.Alpha)
	}
}

// Hue returns (ms/20 + x + y) mod 360, where ms is now in Unix milliseconds.
func Hue(now time.Time, x, y float64) float64 {
	ms := float64(now.UnixMilli())
	h := math.Mod(ms/20+x+y, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HSLA converts hue in degrees, saturation and lightness in [0, 1] and an
// alpha into a gg color.
func HSLA(h, s, l, a float64) gg.RGBA {
	c := colorful.Hsl(h, s, l).Clamped()
	return gg.RGBA2(c.R, c.G, c.B, a)
}
