package assets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/taigrr/voxelscape/pkg/render"
)

// maxDimension bounds the width and height accepted from an image header.
const maxDimension = 1 << 14

// DecodePPM reads a plain (P3) or raw (P6) portable pixmap. Samples are
// rescaled to 8 bits when the header declares a different maximum.
func DecodePPM(r io.Reader) (*render.Image, error) {
	br := bufio.NewReader(r)

	magic, err := token(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read ppm magic: %w", err)
	}
	if magic != "P3" && magic != "P6" {
		return nil, fmt.Errorf("magic %q: %w", magic, ErrFormat)
	}

	var header [3]int
	for i, name := range []string{"width", "height", "max value"} {
		tok, err := token(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read ppm %s: %w", name, err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("ppm %s %q: %w", name, tok, ErrFormat)
		}
		header[i] = v
	}
	width, height, maxVal := header[0], header[1], header[2]
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("ppm size %dx%d: %w", width, height, ErrEmpty)
	}
	if maxVal <= 0 || maxVal > 65535 {
		return nil, fmt.Errorf("ppm max value %d: %w", maxVal, ErrFormat)
	}

	img := render.NewImage(width, height)
	scale := func(v int) uint8 {
		if v > maxVal {
			v = maxVal
		}
		return uint8((v*255 + maxVal/2) / maxVal)
	}

	if magic == "P3" {
		for i := range img.Pix {
			var rgb [3]int
			for c := range rgb {
				tok, err := token(br)
				if err != nil {
					return nil, fmt.Errorf("failed to read pixel %d: %w", i, err)
				}
				v, err := strconv.Atoi(tok)
				if err != nil || v < 0 {
					return nil, fmt.Errorf("pixel %d sample %q: %w", i, tok, ErrFormat)
				}
				rgb[c] = v
			}
			img.Pix[i] = render.PackRGB(scale(rgb[0]), scale(rgb[1]), scale(rgb[2]))
		}
		return img, nil
	}

	// P6: token already consumed the single whitespace byte that ends the
	// header, so the reader sits on the first sample.
	bytesPerSample := 1
	if maxVal > 255 {
		bytesPerSample = 2
	}
	row := make([]byte, width*3*bytesPerSample)
	for y := range height {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("failed to read ppm row %d: %w", y, err)
		}
		for x := range width {
			var rgb [3]int
			for c := range rgb {
				off := (x*3 + c) * bytesPerSample
				if bytesPerSample == 2 {
					rgb[c] = int(row[off])<<8 | int(row[off+1])
				} else {
					rgb[c] = int(row[off])
				}
			}
			img.Pix[y*width+x] = render.PackRGB(scale(rgb[0]), scale(rgb[1]), scale(rgb[2]))
		}
	}
	return img, nil
}

// EncodePPM writes img as a raw (P6) pixmap, or as plain text (P3) when
// plain is set.
func EncodePPM(w io.Writer, img *render.Image, plain bool) error {
	bw := bufio.NewWriter(w)
	magic := "P6"
	if plain {
		magic = "P3"
	}
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", magic, img.Width, img.Height); err != nil {
		return err
	}

	if plain {
		for y := range img.Height {
			for x := range img.Width {
				r, g, b := img.At(x, y).RGB()
				sep := " "
				if x == img.Width-1 {
					sep = "\n"
				}
				if _, err := fmt.Fprintf(bw, "%d %d %d%s", r, g, b, sep); err != nil {
					return err
				}
			}
		}
		return bw.Flush()
	}

	row := make([]byte, img.Width*3)
	for y := range img.Height {
		for x := range img.Width {
			r, g, b := img.At(x, y).RGB()
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// token returns the next whitespace-delimited header or sample token,
// skipping '#' comments.
func token(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch {
		case c == '#' && len(buf) == 0:
			if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case isSpace(c):
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, c)
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
