package procgen

import (
	"math"
	"math/rand"
)

// Noise generates 2D simplex noise from a seed-shuffled permutation table.
type Noise struct {
	perm [512]int
}

// NewNoise creates a noise generator for the given seed. Equal seeds give
// identical fields.
func NewNoise(seed int64) *Noise {
	n := &Noise{}
	r := rand.New(rand.NewSource(seed))

	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(256, func(i, j int) { p[i], p[j] = p[j], p[i] })

	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
	return n
}

// grad2 dots one of eight gradient directions, picked by hash, with (x, y).
func grad2(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

const (
	f2 = 0.3660254037844386  // (sqrt(3) - 1) / 2
	g2 = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// At returns simplex noise at (x, y), in [-1, 1].
func (n *Noise) At(x, y float64) float64 {
	// Skew into the simplex grid
	s := (x + y) * f2
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * g2
	x0 := x - (i - t)
	y0 := y - (j - t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := int(i) & 255
	jj := int(j) & 255

	corner := func(dx, dy float64, hash int) float64 {
		t := 0.5 - dx*dx - dy*dy
		if t <= 0 {
			return 0
		}
		t *= t
		return t * t * grad2(hash, dx, dy)
	}

	sum := corner(x0, y0, n.perm[ii+n.perm[jj]]) +
		corner(x1, y1, n.perm[ii+i1+n.perm[jj+j1]]) +
		corner(x2, y2, n.perm[ii+1+n.perm[jj+1]])
	return 70 * sum
}

// Fractal sums octaves of noise, each at lacunarity times the previous
// frequency and persistence times the previous amplitude, normalized to
// [0, 1].
func (n *Noise) Fractal(x, y, freq float64, octaves int, lacunarity, persistence float64) float64 {
	var total, maxAmp float64
	amp := 1.0

	for range octaves {
		total += n.At(x*freq, y*freq) * amp
		maxAmp += amp
		freq *= lacunarity
		amp *= persistence
	}
	if maxAmp == 0 {
		return 0.5
	}

	return (total/maxAmp + 1) / 2
}
