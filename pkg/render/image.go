// Package render paints a voxel landscape into CPU pixel buffers: sky,
// ray-marched terrain, depth-tested markers and overlays.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixel is a packed 0xAARRGGBB color. Alpha is always 0xFF for pixels
// produced by this package.
type Pixel uint32

// PackRGB packs 8-bit channels into an opaque Pixel.
func PackRGB(r, g, b uint8) Pixel {
	return Pixel(0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB unpacks the color channels.
func (p Pixel) RGB() (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// RGBA returns the pixel as a standard library color.
func (p Pixel) RGBA() color.RGBA {
	r, g, b := p.RGB()
	return color.RGBA{r, g, b, 255}
}

// PixelFromColor converts any color.Color, dropping alpha.
func PixelFromColor(c color.Color) Pixel {
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit values, scale to 8-bit
	return PackRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Image is a fixed-size, row-major grid of pixels. It is used for the
// screen as well as for textures and heightmaps.
type Image struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewImage creates a black image with the given dimensions.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := &Image{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
	img.Fill(PackRGB(0, 0, 0))
	return img
}

// InBounds reports whether (x, y) addresses a pixel of the image.
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

// At returns the pixel at (x, y), or zero if out of bounds.
func (img *Image) At(x, y int) Pixel {
	if !img.InBounds(x, y) {
		return 0
	}
	return img.Pix[y*img.Width+x]
}

// Set sets the pixel at (x, y). Out of bounds writes are ignored.
func (img *Image) Set(x, y int, p Pixel) {
	if !img.InBounds(x, y) {
		return
	}
	img.Pix[y*img.Width+x] = p
}

// Fill sets every pixel to p.
func (img *Image) Fill(p Pixel) {
	n := len(img.Pix)
	if n == 0 {
		return
	}
	img.Pix[0] = p
	for i := 1; i < n; i *= 2 {
		copy(img.Pix[i:], img.Pix[:i])
	}
}

// FillRect fills a rectangle, clipped to the image.
func (img *Image) FillRect(x, y, w, h int, p Pixel) {
	for py := max(y, 0); py < min(y+h, img.Height); py++ {
		for px := max(x, 0); px < min(x+w, img.Width); px++ {
			img.Pix[py*img.Width+px] = p
		}
	}
}

// SameSize reports whether both images have identical dimensions.
func (img *Image) SameSize(other *Image) bool {
	return img.Width == other.Width && img.Height == other.Height
}

// ToRGBA converts the image to a standard Go image.RGBA.
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	img.CopyRGBA(out.Pix)
	return out
}

// CopyRGBA writes the image into dst as tightly packed RGBA bytes, the layout
// used by image.RGBA and by GPU texture uploads. dst must hold at least
// 4*Width*Height bytes.
func (img *Image) CopyRGBA(dst []byte) {
	for i, p := range img.Pix {
		j := i * 4
		dst[j] = uint8(p >> 16)
		dst[j+1] = uint8(p >> 8)
		dst[j+2] = uint8(p)
		dst[j+3] = 255
	}
}

// ImageFromImage converts a standard library image.
func ImageFromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := &Image{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]Pixel, bounds.Dx()*bounds.Dy()),
	}
	for y := range img.Height {
		for x := range img.Width {
			img.Pix[y*img.Width+x] = PixelFromColor(src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return img
}

// SavePNG saves the image as a PNG file.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img.ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
