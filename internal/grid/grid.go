// Package grid walks RGBA frame buffers on a fixed-step lattice.
//
// Every read goes through [Index], which clamps coordinates into the frame,
// so trailing partial cells and displaced lookups never leave the buffer.
package grid

// Buffer is a borrowed view of one RGBA frame, row-major, 4 bytes per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Empty reports whether the buffer has no pixels.
func (b Buffer) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// SameSize reports whether b and o have identical dimensions.
func (b Buffer) SameSize(o Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// Sample is one evaluated lattice point.
type Sample struct {
	X, Y       int
	Brightness float64
	R, G, B    uint8
}

// Index returns the byte offset of pixel (x, y) after clamping it into a
// w x h frame. w and h must be positive.
func Index(w, h, x, y int) int {
	x = clamp(x, 0, w-1)
	y = clamp(y, 0, h-1)
	return (y*w + x) * 4
}

// At returns the RGB channels of the clamped pixel (x, y). An empty or short
// buffer yields black.
func At(b Buffer, x, y int) (r, g, bl uint8) {
	if b.Empty() {
		return 0, 0, 0
	}
	i := Index(b.Width, b.Height, x, y)
	if i+2 >= len(b.Pix) {
		return 0, 0, 0
	}
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Brightness returns (R+G+B)/3 of the clamped pixel (x, y).
func Brightness(b Buffer, x, y int) float64 {
	r, g, bl := At(b, x, y)
	return Luma(r, g, bl)
}

// Luma is the unweighted channel mean used everywhere as brightness.
func Luma(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// SampleAt evaluates the lattice point (x, y).
func SampleAt(b Buffer, x, y int) Sample {
	r, g, bl := At(b, x, y)
	return Sample{X: x, Y: y, Brightness: Luma(r, g, bl), R: r, G: g, B: bl}
}

// Traverse calls visit for every lattice point of b, rows outer and columns
// inner, both ascending. A spacing below 1 is treated as 1.
func Traverse(b Buffer, spacing int, visit func(Sample)) {
	if b.Empty() {
		return
	}
	if spacing < 1 {
		spacing = 1
	}
	for y := 0; y < b.Height; y += spacing {
		for x := 0; x < b.Width; x += spacing {
			visit(SampleAt(b, x, y))
		}
	}
}

// Points returns the lattice column and row counts for a w x h frame.
func Points(w, h, spacing int) (cols, rows int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if spacing < 1 {
		spacing = 1
	}
	return (w + spacing - 1) / spacing, (h + spacing - 1) / spacing
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
