package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// HUDFont is the bitmap font used for on-screen text.
var HUDFont tinyfont.Fonter = &proggy.TinySZ8pt7b

const hudLineHeight = 10

// imageDisplay lets tinyfont draw straight into an Image.
type imageDisplay struct {
	img *Image
}

var _ drivers.Displayer = imageDisplay{}

func (d imageDisplay) Size() (x, y int16) {
	return int16(min(d.img.Width, 1<<15-1)), int16(min(d.img.Height, 1<<15-1))
}

func (d imageDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.img.Set(int(x), int(y), PackRGB(c.R, c.G, c.B))
}

func (d imageDisplay) Display() error { return nil }

// DrawHUD writes lines of text in the top-left corner of screen, one per
// row. Text is not depth tested and is clipped at the screen edges.
func DrawHUD(screen *Image, lines []string, c Pixel) {
	d := imageDisplay{img: screen}
	for i, line := range lines {
		if line == "" {
			continue
		}
		baseline := int16(2 + (i+1)*hudLineHeight - 2)
		tinyfont.WriteLine(d, HUDFont, 2, baseline, line, c.RGBA())
	}
}

// TextWidth returns the width in pixels of s rendered with HUDFont.
func TextWidth(s string) int {
	_, outbox := tinyfont.LineWidth(HUDFont, s)
	return int(outbox)
}
