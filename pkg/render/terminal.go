package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the image to terminal cells and draws them on the screen.
// The image height should be 2x the terminal height.
func (img *Image) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 image rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= img.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= img.Width {
				break
			}
			top := img.At(x, topY).RGBA()
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: top,
				},
			}
			if botY < img.Height {
				cell.Style.Bg = img.At(x, botY).RGBA()
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the image size that fills a terminal of cols x rows
// cells with half-block rendering.
func TerminalSize(cols, rows int) (width, height int) {
	return max(cols, 1), max(rows*2, 2)
}
