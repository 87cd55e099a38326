// Package assets loads and saves the images a landscape is built from:
// textures and heightmaps as PPM, PNG or JPEG, optionally gzip or zstd
// compressed.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/taigrr/voxelscape/pkg/render"
)

var (
	// ErrFormat is returned for unknown or malformed image data.
	ErrFormat = errors.New("assets: unsupported or malformed image")
	// ErrEmpty is returned for images with no pixels.
	ErrEmpty = errors.New("assets: empty image")
)

// Compression identifies the stream wrapper around an image file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

// ParseCompression maps "none", "gz"/"gzip" and "zst"/"zstd" to a
// Compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGzip, nil
	case "zst", "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("unknown compression %q", s)
}

// Ext returns the file suffix for the compression, including the dot.
func (c Compression) Ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// splitExt returns the compression implied by the path suffix and the image
// format extension beneath it, lower-cased.
func splitExt(path string) (Compression, string) {
	ext := strings.ToLower(filepath.Ext(path))
	c := CompressionNone
	switch ext {
	case ".gz":
		c = CompressionGzip
	case ".zst":
		c = CompressionZstd
	}
	if c != CompressionNone {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	return c, ext
}

// Load reads an image from disk. The format is chosen from the extension
// (.ppm/.pnm, .png, .jpg/.jpeg) after stripping an optional .gz or .zst
// suffix.
func Load(path string) (*render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image from r, using name the same way Load uses the path.
func Decode(r io.Reader, name string) (*render.Image, error) {
	comp, ext := splitExt(name)

	switch comp {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var (
		img *render.Image
		err error
	)
	switch ext {
	case ".ppm", ".pnm":
		img, err = DecodePPM(r)
	case ".png", ".jpg", ".jpeg":
		var src image.Image
		src, _, err = image.Decode(r)
		if err != nil {
			err = fmt.Errorf("failed to decode image: %w", err)
			break
		}
		img = render.ImageFromImage(src)
	default:
		return nil, fmt.Errorf("extension %q: %w", ext, ErrFormat)
	}
	if err != nil {
		return nil, err
	}
	if img.Width == 0 || img.Height == 0 {
		return nil, ErrEmpty
	}
	return img, nil
}

// Save writes img to disk, choosing format and compression from the path
// the same way Load does. PPM output is raw (P6).
func Save(path string, img *render.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Encode(f, path, img)
}

// Encode writes img to w, using name the same way Save uses the path.
func Encode(w io.Writer, name string, img *render.Image) error {
	comp, ext := splitExt(name)

	var closer io.Closer
	switch comp {
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		w, closer = zw, zw
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to open zstd stream: %w", err)
		}
		w, closer = zw, zw
	}

	var err error
	switch ext {
	case ".ppm", ".pnm":
		err = EncodePPM(w, img, false)
	case ".png":
		err = png.Encode(w, img.ToRGBA())
	default:
		err = fmt.Errorf("extension %q: %w", ext, ErrFormat)
	}
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// LoadTerrain loads a texture and heightmap pair and checks that their
// dimensions match.
func LoadTerrain(texturePath, heightMapPath string) (texture, heightMap *render.Image, err error) {
	texture, err = Load(texturePath)
	if err != nil {
		return nil, nil, err
	}
	heightMap, err = Load(heightMapPath)
	if err != nil {
		return nil, nil, err
	}
	if !texture.SameSize(heightMap) {
		return nil, nil, fmt.Errorf("texture is %dx%d but heightmap is %dx%d: %w",
			texture.Width, texture.Height, heightMap.Width, heightMap.Height, render.ErrDimensionMismatch)
	}
	return texture, heightMap, nil
}
