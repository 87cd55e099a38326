package render

import (
	"math"
	"testing"
)

func TestDrawSky(t *testing.T) {
	screen := NewImage(10, 20)
	depth := NewDepthBuffer(10, 20)
	depth.TestAndSet(4, 4, 1)
	pal := DefaultPalette()

	DrawSky(screen, depth, pal)

	if got := screen.At(0, 0); got != pal.SkyDark {
		t.Errorf("top row = %#x, want dark sky", uint32(got))
	}
	for y := 10; y < 20; y++ {
		if got := screen.At(5, y); got != pal.SkyLight {
			t.Errorf("row %d = %#x, want light sky", y, uint32(got))
		}
	}
	// Rows are uniform and brighten monotonically toward the horizon.
	prev := -1
	for y := range 20 {
		r, g, b := screen.At(0, y).RGB()
		sum := int(r) + int(g) + int(b)
		if sum < prev {
			t.Errorf("row %d darker than the row above", y)
		}
		prev = sum
		for x := range 10 {
			if screen.At(x, y) != screen.At(0, y) {
				t.Fatalf("row %d is not uniform", y)
			}
		}
	}

	if !math.IsInf(depth.At(4, 4), 1) {
		t.Error("DrawSky should reset the depth buffer")
	}
}

func TestDrawSkyWithoutDepth(t *testing.T) {
	screen := NewImage(3, 4)
	DrawSky(screen, nil, DefaultPalette())
	if screen.At(2, 3) != ColorLightSky {
		t.Error("sky not painted without a depth buffer")
	}
}
