package render

import "math"

// MinDistance is the smallest distance stored in a depth buffer. Zero,
// negative and NaN candidates are raised to it.
const MinDistance = 1e-6

// DepthBuffer keeps the closest distance painted so far for every pixel.
type DepthBuffer struct {
	Width  int
	Height int
	Dist   []float64 // Row-major
}

// NewDepthBuffer creates a depth buffer with every entry at +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	width, height = max(width, 0), max(height, 0)
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Dist:   make([]float64, width*height),
	}
	d.Reset()
	return d
}

// Reset sets every entry back to +Inf.
func (d *DepthBuffer) Reset() {
	// Fill using copy doubling: O(log n) copy calls instead of n assignments
	n := len(d.Dist)
	if n == 0 {
		return
	}
	d.Dist[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(d.Dist[i:], d.Dist[:i])
	}
}

// At returns the stored distance, or +Inf when out of bounds.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.Inf(1)
	}
	return d.Dist[y*d.Width+x]
}

// TestAndSet stores dist at (x, y) if it is no farther than what is already
// there and reports whether it did. Ties go to the caller, so later passes
// at the same distance win. Out of bounds pixels never pass.
func (d *DepthBuffer) TestAndSet(x, y int, dist float64) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	if !(dist >= MinDistance) {
		dist = MinDistance
	}
	i := y*d.Width + x
	if dist <= d.Dist[i] {
		d.Dist[i] = dist
		return true
	}
	return false
}

// plot paints one depth-tested pixel. A nil depth buffer accepts every write.
func plot(screen *Image, depth *DepthBuffer, x, y int, dist float64, c Pixel) {
	if !screen.InBounds(x, y) {
		return
	}
	if depth != nil && !depth.TestAndSet(x, y, dist) {
		return
	}
	screen.Pix[y*screen.Width+x] = c
}
