package render

import "math"

// HeightScale converts an 8-bit heightmap intensity into world units.
const HeightScale = 0.05

// SampleTexture returns the pixel nearest to (x, y). Coordinates are clamped
// to the image edges, never wrapped, and then truncated. NaN coordinates
// sample the first row or column. The image must not be empty.
func SampleTexture(img *Image, x, y float64) Pixel {
	u := clampCoord(x, img.Width)
	v := clampCoord(y, img.Height)
	return img.Pix[v*img.Width+u]
}

// SampleGray returns the gray level of a heightmap at (x, y). Heightmaps are
// grayscale, so any channel would do; the blue one is used.
func SampleGray(img *Image, x, y float64) uint8 {
	_, _, b := SampleTexture(img, x, y).RGB()
	return b
}

// SampleHeightMap returns the world-space terrain height at (x, y).
func SampleHeightMap(img *Image, x, y float64) float64 {
	return HeightScale * float64(SampleGray(img, x, y))
}

func clampCoord(c float64, size int) int {
	hi := float64(size - 1)
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > hi:
		return size - 1
	}
	return int(c)
}
