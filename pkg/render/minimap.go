package render

import "github.com/taigrr/voxelscape/pkg/camera"

// MapScale is the number of texture pixels per minimap pixel.
const MapScale = 8

// DrawMinimap overlays a downscaled copy of texture in the top-right corner
// of screen. The map is mirrored on both axes so that +X runs right to left
// and +Z runs bottom to top. Markers and the camera inside the texture area
// are drawn as single pixels. The overlay is not depth tested.
func DrawMinimap(screen, texture *Image, e camera.Extrinsics, markers []Marker, pal Palette) {
	mw := texture.Width / MapScale
	mh := texture.Height / MapScale
	for my := range mh {
		for mx := range mw {
			c := texture.At(mx*MapScale, my*MapScale)
			screen.Set(screen.Width-mx-1, mh-my-1, c)
		}
	}

	for _, m := range markers {
		c := pal.Ball
		if m.Kind == MarkerFlag {
			c = pal.Flag
		}
		if x, y, ok := mapPoint(screen, texture, m.Position.X, m.Position.Z); ok {
			screen.Set(x, y, c)
		}
	}
	if x, y, ok := mapPoint(screen, texture, e.X, e.Z); ok {
		screen.Set(x, y, pal.Camera)
	}
}

func mapPoint(screen, texture *Image, x, z float64) (int, int, bool) {
	if !(x >= 0 && x < float64(texture.Width) && z >= 0 && z < float64(texture.Height)) {
		return 0, 0, false
	}
	mh := texture.Height / MapScale
	return screen.Width - int(x)/MapScale - 1, mh - int(z)/MapScale - 1, true
}
