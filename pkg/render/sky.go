package render

// DrawSky fills every row of screen with a vertical gradient from
// pal.SkyDark at the top to pal.SkyLight at the horizon; rows below the
// horizon keep the light color. It also resets depth for the new frame.
func DrawSky(screen *Image, depth *DepthBuffer, pal Palette) {
	if depth != nil {
		depth.Reset()
	}
	if screen.Height == 0 {
		return
	}
	for y := range screen.Height {
		t := min(1, 2*float64(y)/float64(screen.Height))
		c := InterpolateColor(pal.SkyDark, pal.SkyLight, t)
		row := screen.Pix[y*screen.Width : (y+1)*screen.Width]
		for x := range row {
			row[x] = c
		}
	}
}
