package filter

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
)

// BlurFilter applies separable Gaussian blur to a pixmap.
// The separable algorithm processes horizontal and vertical passes
// independently, achieving O(w*h*(rx+ry)) complexity instead of O(w*h*rx*ry).
type BlurFilter struct {
	// RadiusX is the horizontal blur radius (sigma) in pixels.
	RadiusX float64

	// RadiusY is the vertical blur radius (sigma) in pixels.
	RadiusY float64
}

// NewBlurFilter creates a new blur filter with equal radius in both directions.
// A CSS "blur(2px)" corresponds to NewBlurFilter(2).
func NewBlurFilter(radius float64) *BlurFilter {
	return &BlurFilter{
		RadiusX: radius,
		RadiusY: radius,
	}
}

// Apply blurs src into dst within bounds. src and dst may be the same pixmap:
// the horizontal pass reads all of src into a temporary buffer before the
// vertical pass writes dst.
func (f *BlurFilter) Apply(src, dst *gg.Pixmap, bounds image.Rectangle) {
	if src == nil || dst == nil {
		return
	}

	bounds = bounds.Intersect(src.Bounds()).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}

	if f.RadiusX <= 0 && f.RadiusY <= 0 {
		if src != dst {
			copyRegion(src, dst, bounds)
		}
		return
	}

	width := bounds.Dx()
	height := bounds.Dy()

	temp := getTempBuffer(width * height * 4)
	defer putTempBuffer(temp)

	kernelX := CachedGaussianKernel(f.RadiusX)
	kernelY := CachedGaussianKernel(f.RadiusY)

	// Pass 1: horizontal (src -> temp)
	blurHorizontal(src, temp, bounds, kernelX)

	// Pass 2: vertical (temp -> dst)
	blurVertical(temp, dst, bounds, kernelY)
}

// blurHorizontal convolves each row of src with kernel into temp.
// Samples outside bounds are clamped to the nearest edge pixel.
func blurHorizontal(src *gg.Pixmap, temp []float32, bounds image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	srcWidth := src.Width()
	data := src.Data()
	width := bounds.Dx()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := y * srcWidth
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var r, g, b, a float32

			for k, weight := range kernel {
				kx := x + k - half
				if kx < bounds.Min.X {
					kx = bounds.Min.X
				} else if kx >= bounds.Max.X {
					kx = bounds.Max.X - 1
				}

				i := (row + kx) * 4
				r += float32(data[i+0]) * weight
				g += float32(data[i+1]) * weight
				b += float32(data[i+2]) * weight
				a += float32(data[i+3]) * weight
			}

			t := ((y-bounds.Min.Y)*width + (x - bounds.Min.X)) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = b
			temp[t+3] = a
		}
	}
}

// blurVertical convolves each column of temp with kernel into dst.
func blurVertical(temp []float32, dst *gg.Pixmap, bounds image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	dstWidth := dst.Width()
	data := dst.Data()
	width := bounds.Dx()
	height := bounds.Dy()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}

				t := (ky*width + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				b += temp[t+2] * weight
				a += temp[t+3] * weight
			}

			i := ((bounds.Min.Y+y)*dstWidth + bounds.Min.X + x) * 4
			data[i+0] = clampUint8(r)
			data[i+1] = clampUint8(g)
			data[i+2] = clampUint8(b)
			data[i+3] = clampUint8(a)
		}
	}
}

// copyRegion copies the raw bytes of bounds from src to dst.
func copyRegion(src, dst *gg.Pixmap, bounds image.Rectangle) {
	sd, dd := src.Data(), dst.Data()
	sw, dw := src.Width(), dst.Width()
	n := bounds.Dx() * 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		si := (y*sw + bounds.Min.X) * 4
		di := (y*dw + bounds.Min.X) * 4
		copy(dd[di:di+n], sd[si:si+n])
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// tempBufferPool holds float scratch buffers shared by blur and glow. Frames
// keep the same size between ticks, so after the first tick every Get hits.
var tempBufferPool = sync.Pool{
	New: func() interface{} {
		return &floatBuffer{}
	},
}

// getTempBuffer returns a zeroed buffer with exactly size elements.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if cap(wrapper.data) < size {
		wrapper.data = make([]float32, size)
	}
	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a buffer to the pool.
func putTempBuffer(buf []float32) {
	// 1080p RGBA is ~8M floats; anything larger is not worth keeping.
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
