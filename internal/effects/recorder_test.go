package effects

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/filter"
	"github.com/gogpu/camfx/internal/grid"
)

// op is one recorded canvas call.
type op struct {
	name   string
	x, y   float64
	w, h   float64
	r      float64
	text   string
	pts    []gg.Point
	col    gg.RGBA
	filter *filter.ColorMatrixFilter
}

// recorder is a Canvas that remembers every call in order.
type recorder struct {
	ops     []op
	scratch grid.Buffer
	depth   int
}

func (r *recorder) add(o op) { r.ops = append(r.ops, o) }

func (r *recorder) Clear(col gg.RGBA) { r.add(op{name: "clear", col: col}) }

func (r *recorder) FillRect(x, y, w, h float64, col gg.RGBA) {
	r.add(op{name: "rect", x: x, y: y, w: w, h: h, col: col})
}

func (r *recorder) FillPolygon(pts []gg.Point, col gg.RGBA) {
	r.add(op{name: "polygon", pts: append([]gg.Point(nil), pts...), col: col})
}

func (r *recorder) FillCircle(x, y, rad float64, col gg.RGBA) {
	r.add(op{name: "circle", x: x, y: y, r: rad, col: col})
}

func (r *recorder) DrawGlyph(s string, x, y, size float64, col gg.RGBA) {
	r.add(op{name: "glyph", text: s, x: x, y: y, r: size, col: col})
}

func (r *recorder) BlendPrevious(_ *gg.Pixmap, alpha float64) {
	r.add(op{name: "blend", r: alpha})
}

func (r *recorder) LoadScratch(buf grid.Buffer) {
	r.scratch = buf
	r.add(op{name: "load"})
}

func (r *recorder) Scratch() grid.Buffer { return r.scratch }

func (r *recorder) PasteClipped(poly []gg.Point, _ gg.Matrix) {
	r.add(op{name: "paste", pts: append([]gg.Point(nil), poly...)})
}

func (r *recorder) Blur(radius float64) { r.add(op{name: "blur", r: radius}) }

func (r *recorder) ApplyColorMatrix(f *filter.ColorMatrixFilter) {
	r.add(op{name: "matrix", filter: f})
}

func (r *recorder) BeginGlow(radius float64, col gg.RGBA) {
	r.depth++
	r.add(op{name: "beginGlow", r: radius, col: col})
}

func (r *recorder) EndGlow() {
	r.depth--
	r.add(op{name: "endGlow"})
}

// count returns how many recorded ops have the given name.
func (r *recorder) count(name string) int {
	n := 0
	for _, o := range r.ops {
		if o.name == name {
			n++
		}
	}
	return n
}

// only returns the recorded ops with the given name.
func (r *recorder) only(name string) []op {
	var out []op
	for _, o := range r.ops {
		if o.name == name {
			out = append(out, o)
		}
	}
	return out
}

func uniformFrame(w, h int, v uint8) grid.Buffer {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
	}
	return grid.Buffer{Width: w, Height: h, Pix: pix}
}
