package filter

import (
	"testing"

	"github.com/gogpu/gg"
)

func TestGlowTransparentLayerLeavesDst(t *testing.T) {
	layer := newFilled(8, 8, 0, 0, 0, 0)
	dst := newFilled(8, 8, 40, 50, 60, 255)

	NewGlowFilter(15, gg.RGBA2(0, 1, 1, 0.8)).Apply(layer, dst, dst.Bounds())

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := raw(dst, x, y); got != [4]uint8{40, 50, 60, 255} {
				t.Fatalf("pixel (%d,%d) = %v, want unchanged", x, y, got)
			}
		}
	}
}

func TestGlowHaloAroundShape(t *testing.T) {
	layer := newFilled(21, 21, 0, 0, 0, 0)
	for y := 9; y <= 11; y++ {
		for x := 9; x <= 11; x++ {
			setRaw(layer, x, y, 255, 0, 255, 255)
		}
	}
	dst := newFilled(21, 21, 0, 0, 0, 255)

	NewGlowFilter(6, gg.RGBA2(0, 1, 1, 0.8)).Apply(layer, dst, dst.Bounds())

	if got := raw(dst, 10, 10); got != [4]uint8{255, 0, 255, 255} {
		t.Errorf("opaque layer pixel = %v, want layer color", got)
	}

	halo := raw(dst, 13, 10)
	if halo[0] != 0 {
		t.Errorf("halo red = %d, want 0 for a cyan glow", halo[0])
	}
	if halo[1] == 0 || halo[1] != halo[2] {
		t.Errorf("halo = %v, want equal non-zero green and blue", halo)
	}

	if got := raw(dst, 0, 0); got[1] > halo[1] {
		t.Errorf("corner %v brighter than near halo %v", got, halo)
	}
}

func TestGlowMismatchedSizes(t *testing.T) {
	layer := newFilled(4, 4, 255, 255, 255, 255)
	dst := newFilled(5, 5, 0, 0, 0, 255)

	NewGlowFilter(4, gg.RGBA2(1, 1, 1, 1)).Apply(layer, dst, dst.Bounds())

	if got := raw(dst, 0, 0); got != [4]uint8{0, 0, 0, 255} {
		t.Errorf("dst modified on size mismatch: %v", got)
	}
}
