// Package procgen generates landscapes: a fractal simplex-noise heightmap
// and a texture colored by height bands.
package procgen

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/voxelscape/pkg/render"
)

// ErrInvalidOptions is returned by Generate for unusable options.
var ErrInvalidOptions = errors.New("procgen: invalid options")

// Band colors terrain at and above Level, a normalized height in [0, 1].
// Heights between two bands blend in Lab space.
type Band struct {
	Level float64
	Color colorful.Color
}

// Options controls terrain generation.
type Options struct {
	Size        int   // Width and height in pixels
	Seed        int64 // Noise seed
	Frequency   float64
	Octaves     int
	Lacunarity  float64
	Persistence float64
	// SeaLevel flattens everything below it, in normalized height.
	SeaLevel float64
	// Relief darkens steep slopes; 0 disables shading.
	Relief float64
	Bands  []Band
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultBands runs from water through sand, grass and rock to snow.
func DefaultBands() []Band {
	return []Band{
		{0.00, mustHex("#1d4e89")},
		{0.30, mustHex("#3c7fb1")},
		{0.34, mustHex("#d8c58a")},
		{0.40, mustHex("#5b9a3c")},
		{0.60, mustHex("#2f6b2a")},
		{0.75, mustHex("#7a6a58")},
		{0.88, mustHex("#f4f4f4")},
	}
}

// DefaultOptions returns a 1024x1024 rolling landscape.
func DefaultOptions() Options {
	return Options{
		Size:        1024,
		Seed:        1,
		Frequency:   1.0 / 256,
		Octaves:     6,
		Lacunarity:  2,
		Persistence: 0.5,
		SeaLevel:    0.32,
		Relief:      0.5,
		Bands:       DefaultBands(),
	}
}

// Validate reports the first unusable option.
func (o Options) Validate() error {
	switch {
	case o.Size <= 0 || o.Size > 1<<14:
		return fmt.Errorf("size %d: %w", o.Size, ErrInvalidOptions)
	case o.Octaves <= 0:
		return fmt.Errorf("octaves %d: %w", o.Octaves, ErrInvalidOptions)
	case !(o.Frequency > 0) || math.IsInf(o.Frequency, 0):
		return fmt.Errorf("frequency %v: %w", o.Frequency, ErrInvalidOptions)
	case len(o.Bands) == 0:
		return fmt.Errorf("no color bands: %w", ErrInvalidOptions)
	}
	return nil
}

// HeightField returns normalized heights in [0, 1], row-major, Size*Size.
func HeightField(o Options) ([]float64, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	noise := NewNoise(o.Seed)
	field := make([]float64, o.Size*o.Size)
	for y := range o.Size {
		for x := range o.Size {
			h := noise.Fractal(float64(x), float64(y), o.Frequency, o.Octaves, o.Lacunarity, o.Persistence)
			field[y*o.Size+x] = max(h, o.SeaLevel)
		}
	}
	return field, nil
}

// Generate builds a texture and heightmap of the same size. The heightmap
// is gray, so its blue channel carries the height.
func Generate(o Options) (texture, heightMap *render.Image, err error) {
	field, err := HeightField(o)
	if err != nil {
		return nil, nil, err
	}

	bands := append([]Band(nil), o.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Level < bands[j].Level })

	n := o.Size
	texture = render.NewImage(n, n)
	heightMap = render.NewImage(n, n)
	for y := range n {
		for x := range n {
			h := field[y*n+x]
			gray := uint8(math.Round(255 * clamp01(h)))
			heightMap.Pix[y*n+x] = render.PackRGB(gray, gray, gray)

			c := BandColor(bands, h)
			if o.Relief > 0 && h > o.SeaLevel {
				// Central difference, clamped at the edges
				dx := field[y*n+min(x+1, n-1)] - field[y*n+max(x-1, 0)]
				dy := field[min(y+1, n-1)*n+x] - field[max(y-1, 0)*n+x]
				slope := math.Hypot(dx, dy) / (2 * o.Frequency)
				c = c.BlendLab(colorful.Color{}, clamp01(slope*o.Relief)*0.5).Clamped()
			}
			r, g, b := c.RGB255()
			texture.Pix[y*n+x] = render.PackRGB(r, g, b)
		}
	}
	return texture, heightMap, nil
}

// BandColor picks the color for height h from bands sorted by Level.
func BandColor(bands []Band, h float64) colorful.Color {
	if h <= bands[0].Level {
		return bands[0].Color
	}
	for i := 1; i < len(bands); i++ {
		lo, hi := bands[i-1], bands[i]
		if h < hi.Level {
			t := (h - lo.Level) / (hi.Level - lo.Level)
			return lo.Color.BlendLab(hi.Color, t).Clamped()
		}
	}
	return bands[len(bands)-1].Color
}

func clamp01(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	}
	return v
}
