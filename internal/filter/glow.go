package filter

import (
	"image"

	"github.com/gogpu/gg"
)

// GlowFilter approximates a canvas shadowBlur: the alpha of a layer is
// blurred, tinted with Color and composited beneath the layer onto the
// destination.
type GlowFilter struct {
	// Radius is the canvas-style shadow blur in pixels. The Gaussian sigma is
	// half of it, as browsers do.
	Radius float64

	// Color is the glow tint; its alpha scales the halo strength.
	Color gg.RGBA
}

// NewGlowFilter creates a glow filter.
// Common usage: NewGlowFilter(15, gg.RGBA2(0, 1, 1, 0.8))
func NewGlowFilter(radius float64, color gg.RGBA) *GlowFilter {
	return &GlowFilter{Radius: radius, Color: color}
}

// Apply composites layer onto dst with the glow halo underneath it:
//
//	dst = layer over (halo over dst)
//
// layer and dst must have the same dimensions. layer holds premultiplied
// color over a transparent background.
func (f *GlowFilter) Apply(layer, dst *gg.Pixmap, bounds image.Rectangle) {
	if layer == nil || dst == nil || layer.Width() != dst.Width() || layer.Height() != dst.Height() {
		return
	}

	bounds = bounds.Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}

	width := bounds.Dx()
	height := bounds.Dy()

	alpha := getTempBuffer(width * height)
	defer putTempBuffer(alpha)
	extractAlpha(layer, alpha, bounds)

	if f.Radius > 0 {
		blurAlpha(alpha, width, height, f.Radius/2)
	}

	compositeGlow(layer, dst, alpha, bounds, f.Color)
}

// extractAlpha copies the layer alpha in bounds into alpha as [0, 1] floats.
func extractAlpha(layer *gg.Pixmap, alpha []float32, bounds image.Rectangle) {
	data := layer.Data()
	lw := layer.Width()
	width := bounds.Dx()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			alpha[(y-bounds.Min.Y)*width+(x-bounds.Min.X)] = float32(data[(y*lw+x)*4+3]) / 255
		}
	}
}

// blurAlpha applies a separable Gaussian blur to a single-channel buffer in place.
func blurAlpha(buf []float32, width, height int, radius float64) {
	kernel := CachedGaussianKernel(radius)
	half := len(kernel) / 2

	temp := getTempBuffer(width * height)
	defer putTempBuffer(temp)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float32
			for k, w := range kernel {
				kx := x + k - half
				if kx < 0 {
					kx = 0
				} else if kx >= width {
					kx = width - 1
				}
				sum += buf[y*width+kx] * w
			}
			temp[y*width+x] = sum
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float32
			for k, w := range kernel {
				ky := y + k - half
				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}
				sum += temp[ky*width+x] * w
			}
			buf[y*width+x] = sum
		}
	}
}

// compositeGlow writes layer over (halo over dst) into dst.
func compositeGlow(layer, dst *gg.Pixmap, halo []float32, bounds image.Rectangle, color gg.RGBA) {
	ld := layer.Data()
	dd := dst.Data()
	w := dst.Width()
	width := bounds.Dx()

	cr := float32(color.R * 255)
	cg := float32(color.G * 255)
	cb := float32(color.B * 255)
	ca := float32(color.A)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := (y*w + x) * 4
			ha := halo[(y-bounds.Min.Y)*width+(x-bounds.Min.X)] * ca

			// Halo over destination.
			inv := 1 - ha
			r := cr*ha + float32(dd[i+0])*inv
			g := cg*ha + float32(dd[i+1])*inv
			b := cb*ha + float32(dd[i+2])*inv
			a := ha*255 + float32(dd[i+3])*inv

			// Layer (premultiplied) over the result.
			la := float32(ld[i+3]) / 255
			inv = 1 - la
			dd[i+0] = clampUint8(float32(ld[i+0]) + r*inv)
			dd[i+1] = clampUint8(float32(ld[i+1]) + g*inv)
			dd[i+2] = clampUint8(float32(ld[i+2]) + b*inv)
			dd[i+3] = clampUint8(float32(ld[i+3]) + a*inv)
		}
	}
}
