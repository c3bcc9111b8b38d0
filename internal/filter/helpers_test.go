package filter

import "github.com/gogpu/gg"

// Test helper functions shared across filter tests. They work on raw bytes so
// expectations do not depend on the pixmap's color conversions.

// newFilled creates a w x h pixmap whose every pixel is (r, g, b, a).
func newFilled(w, h int, r, g, b, a uint8) *gg.Pixmap {
	p := gg.NewPixmap(w, h)
	d := p.Data()
	for i := 0; i < len(d); i += 4 {
		d[i+0], d[i+1], d[i+2], d[i+3] = r, g, b, a
	}
	return p
}

// setRaw writes raw bytes at (x, y).
func setRaw(p *gg.Pixmap, x, y int, r, g, b, a uint8) {
	i := (y*p.Width() + x) * 4
	d := p.Data()
	d[i+0], d[i+1], d[i+2], d[i+3] = r, g, b, a
}

// raw reads the bytes at (x, y).
func raw(p *gg.Pixmap, x, y int) [4]uint8 {
	i := (y*p.Width() + x) * 4
	d := p.Data()
	return [4]uint8{d[i+0], d[i+1], d[i+2], d[i+3]}
}

// near reports whether every channel of a and b differs by at most tol.
func near(a, b [4]uint8, tol int) bool {
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}
