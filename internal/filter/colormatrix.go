package filter

import (
	"image"

	"github.com/gogpu/gg"
)

// ColorMatrixFilter applies a 4x5 color transformation matrix to a pixmap.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values.
// Color values are in [0, 255] range during transformation,
// then clamped back to valid range.
type ColorMatrixFilter struct {
	// Matrix is the 4x5 transformation matrix in row-major order.
	// [0-4] = row 0 (R), [5-9] = row 1 (G), [10-14] = row 2 (B), [15-19] = row 3 (A)
	Matrix [20]float32
}

// NewIdentityColorMatrix creates a color matrix filter that passes through unchanged.
func NewIdentityColorMatrix() *ColorMatrixFilter {
	return &ColorMatrixFilter{
		Matrix: [20]float32{
			1, 0, 0, 0, 0,
			0, 1, 0, 0, 0,
			0, 0, 1, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewBrightnessFilter matches CSS brightness(factor).
// factor: 0.0 = black, 1.0 = unchanged, 2.0 = twice as bright
func NewBrightnessFilter(factor float32) *ColorMatrixFilter {
	return &ColorMatrixFilter{
		Matrix: [20]float32{
			factor, 0, 0, 0, 0,
			0, factor, 0, 0, 0,
			0, 0, factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewContrastFilter matches CSS contrast(factor).
// factor: 0.0 = gray, 1.0 = unchanged, 2.0 = high contrast
func NewContrastFilter(factor float32) *ColorMatrixFilter {
	// (color - 128) * factor + 128
	offset := 128 * (1 - factor)
	return &ColorMatrixFilter{
		Matrix: [20]float32{
			factor, 0, 0, 0, offset,
			0, factor, 0, 0, offset,
			0, 0, factor, 0, offset,
			0, 0, 0, 1, 0,
		},
	}
}

// NewSepiaFilter matches CSS sepia(amount) for amount in [0, 1].
func NewSepiaFilter(amount float32) *ColorMatrixFilter {
	if amount < 0 {
		amount = 0
	} else if amount > 1 {
		amount = 1
	}
	k := 1 - amount
	return &ColorMatrixFilter{
		Matrix: [20]float32{
			0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k, 0, 0,
			0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k, 0, 0,
			0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Then returns a filter equivalent to applying f and then next, in the same
// order a CSS filter list is evaluated.
func (f *ColorMatrixFilter) Then(next *ColorMatrixFilter) *ColorMatrixFilter {
	a := &next.Matrix
	b := &f.Matrix

	result := &ColorMatrixFilter{}
	r := &result.Matrix

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = a[row*5+0]*b[4] + a[row*5+1]*b[9] +
			a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}

	return result
}

// Apply applies the color matrix to src within bounds and writes dst.
// Pixels are premultiplied, as gg stores them. src and dst may be the same
// pixmap.
func (f *ColorMatrixFilter) Apply(src, dst *gg.Pixmap, bounds image.Rectangle) {
	if src == nil || dst == nil {
		return
	}

	bounds = bounds.Intersect(src.Bounds()).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}

	srcData := src.Data()
	dstData := dst.Data()
	srcWidth := src.Width()
	dstWidth := dst.Width()

	m := &f.Matrix

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			srcIdx := (y*srcWidth + x) * 4
			dstIdx := (y*dstWidth + x) * 4

			pr := float32(srcData[srcIdx+0])
			pg := float32(srcData[srcIdx+1])
			pb := float32(srcData[srcIdx+2])
			a := float32(srcData[srcIdx+3])

			// The matrix coefficients assume straight-alpha color values.
			var r, g, b float32
			if a > 0 {
				r = pr * 255 / a
				g = pg * 255 / a
				b = pb * 255 / a
			}

			newR := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
			newG := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
			newB := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]
			newA := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]

			// Clamp before premultiplying so out-of-range channels saturate
			// instead of leaking through the alpha factor.
			newR, newG, newB = clamp255(newR), clamp255(newG), clamp255(newB)
			newA = clamp255(newA)
			factor := newA / 255

			dstData[dstIdx+0] = clampUint8(newR * factor)
			dstData[dstIdx+1] = clampUint8(newG * factor)
			dstData[dstIdx+2] = clampUint8(newB * factor)
			dstData[dstIdx+3] = clampUint8(newA)
		}
	}
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
