package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colors for convenience
var (
	ColorBlack    = PackRGB(0, 0, 0)
	ColorWhite    = PackRGB(255, 255, 255)
	ColorRed      = PackRGB(255, 0, 0)
	ColorYellow   = PackRGB(255, 255, 0)
	ColorDarkSky  = PackRGB(0, 145, 212)
	ColorLightSky = PackRGB(154, 223, 255)
	ColorPole     = PackRGB(90, 90, 90)
)

// Palette holds every color the frame painters use.
type Palette struct {
	SkyDark  Pixel // Top of the sky gradient
	SkyLight Pixel // Horizon color of the sky gradient
	Fog      Pixel // Color distant terrain fades into
	Pole     Pixel
	Flag     Pixel
	Ball     Pixel
	Camera   Pixel // Camera dot on the minimap
	Text     Pixel // HUD text
}

// DefaultPalette returns the stock sky-blue palette.
func DefaultPalette() Palette {
	return Palette{
		SkyDark:  ColorDarkSky,
		SkyLight: ColorLightSky,
		Fog:      ColorLightSky,
		Pole:     ColorPole,
		Flag:     ColorRed,
		Ball:     ColorWhite,
		Camera:   ColorWhite,
		Text:     ColorYellow,
	}
}

// InterpolateColor linearly blends c0 toward c1 by t, per channel, rounding
// to the nearest integer and clamping to [0, 255]. t itself is not clamped:
// callers must keep it in [0, 1].
func InterpolateColor(c0, c1 Pixel, t float64) Pixel {
	r0, g0, b0 := c0.RGB()
	r1, g1, b1 := c1.RGB()
	return PackRGB(
		lerpChannel(r0, r1, t),
		lerpChannel(g0, g1, t),
		lerpChannel(b0, b1, t),
	)
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a)*(1-t) + float64(b)*t)
	switch {
	case !(v >= 0): // also catches NaN
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// ParseHex parses a CSS-style hex color such as "#9adfff".
func ParseHex(s string) (Pixel, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return PackRGB(r, g, b), nil
}

// Hex formats a pixel as a "#rrggbb" string.
func (p Pixel) Hex() string {
	r, g, b := p.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}
