package render

import (
	"errors"
	"testing"
)

func TestInterpolateColorEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		c0, c1 Pixel
	}{
		{"sky", ColorDarkSky, ColorLightSky},
		{"black to white", ColorBlack, ColorWhite},
		{"white to black", ColorWhite, ColorBlack},
		{"same", ColorRed, ColorRed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InterpolateColor(tc.c0, tc.c1, 0); got != tc.c0 {
				t.Errorf("t=0: got %#x, want %#x", uint32(got), uint32(tc.c0))
			}
			if got := InterpolateColor(tc.c0, tc.c1, 1); got != tc.c1 {
				t.Errorf("t=1: got %#x, want %#x", uint32(got), uint32(tc.c1))
			}
		})
	}
}

func TestInterpolateColorStaysBetween(t *testing.T) {
	c0 := PackRGB(10, 200, 90)
	c1 := PackRGB(250, 0, 90)
	r0, g0, b0 := c0.RGB()
	r1, g1, b1 := c1.RGB()

	between := func(v, a, b uint8) bool {
		return v >= min(a, b) && v <= max(a, b)
	}
	for i := range 101 {
		tt := float64(i) / 100
		r, g, b := InterpolateColor(c0, c1, tt).RGB()
		if !between(r, r0, r1) || !between(g, g0, g1) || !between(b, b0, b1) {
			t.Errorf("t=%v: (%d, %d, %d) outside endpoints", tt, r, g, b)
		}
	}
}

func TestInterpolateColorRounds(t *testing.T) {
	got := InterpolateColor(PackRGB(0, 0, 0), PackRGB(3, 255, 1), 0.5)
	want := PackRGB(2, 128, 1) // 1.5, 127.5 and 0.5 round half away from zero
	if got != want {
		t.Errorf("got %#x, want %#x", uint32(got), uint32(want))
	}
}

func TestInterpolateColorClampsChannels(t *testing.T) {
	// Callers are expected to clamp t, but stray values must still yield
	// valid channels.
	if got := InterpolateColor(ColorBlack, ColorWhite, 2); got != ColorWhite {
		t.Errorf("t=2: got %#x, want white", uint32(got))
	}
	if got := InterpolateColor(ColorBlack, ColorWhite, -1); got != ColorBlack {
		t.Errorf("t=-1: got %#x, want black", uint32(got))
	}
}

func TestParseHex(t *testing.T) {
	p, err := ParseHex("#9adfff")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if p != ColorLightSky {
		t.Errorf("got %#x, want light sky", uint32(p))
	}
	if got := p.Hex(); got != "#9adfff" {
		t.Errorf("Hex = %q", got)
	}

	if _, err := ParseHex("sky"); err == nil {
		t.Error("expected an error for an invalid color")
	} else if errors.Unwrap(err) == nil {
		t.Error("error should wrap the parse failure")
	}
}
