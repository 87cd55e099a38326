package render

import (
	"math"

	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/math3d"
)

// MarkerKind selects how a marker is drawn.
type MarkerKind int

const (
	MarkerBall MarkerKind = iota // 2x2 pixel block
	MarkerFlag                   // Pole topped by a flag
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerBall:
		return "ball"
	case MarkerFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Marker is a point in the world drawn on top of the terrain.
type Marker struct {
	Kind     MarkerKind
	Position math3d.Vec3
}

// Flag dimensions in world units.
const (
	FlagPoleHeight = 4.0
	FlagWidth      = 2.0
	FlagHeight     = 1.2
)

// DrawMarkers draws each marker with its own pass.
func DrawMarkers(screen *Image, depth *DepthBuffer, k camera.Intrinsics, e camera.Extrinsics, markers []Marker, pal Palette) {
	if len(markers) == 0 {
		return
	}
	imageFromWorld := camera.ImageFromWorld(k, e)
	for _, m := range markers {
		switch m.Kind {
		case MarkerFlag:
			drawFlag(screen, depth, imageFromWorld, k.Fy, m.Position, pal)
		default:
			drawBall(screen, depth, imageFromWorld, m.Position, pal.Ball)
		}
	}
}

// DrawBall draws a 2x2 block at the projection of p. Points behind the
// camera or off screen are skipped.
func DrawBall(screen *Image, depth *DepthBuffer, k camera.Intrinsics, e camera.Extrinsics, p math3d.Vec3, c Pixel) {
	drawBall(screen, depth, camera.ImageFromWorld(k, e), p, c)
}

// DrawFlag draws a flag whose pole stands on base. The pole is one pixel wide
// and both pole and flag shrink with distance.
func DrawFlag(screen *Image, depth *DepthBuffer, k camera.Intrinsics, e camera.Extrinsics, base math3d.Vec3, pal Palette) {
	drawFlag(screen, depth, camera.ImageFromWorld(k, e), k.Fy, base, pal)
}

func drawBall(screen *Image, depth *DepthBuffer, imageFromWorld math3d.Mat4, p math3d.Vec3, c Pixel) {
	u, v, dist, ok := camera.Project(imageFromWorld, p)
	if !ok {
		return
	}
	x, y := math.Floor(u), math.Floor(v)
	fillBlock(screen, depth, x, y, x+2, y+2, dist, c)
}

func drawFlag(screen *Image, depth *DepthBuffer, imageFromWorld math3d.Mat4, fy float64, base math3d.Vec3, pal Palette) {
	u, v, dist, ok := camera.Project(imageFromWorld, base)
	if !ok {
		return
	}
	scale := fy / dist
	x := math.Floor(u)
	top := v - FlagPoleHeight*scale

	// Pole
	fillBlock(screen, depth, x, top, x+1, v, dist, pal.Pole)
	// Flag, hanging off the right of the pole top
	fillBlock(screen, depth, x+1, top, x+1+math.Max(1, FlagWidth*scale), top+math.Max(1, FlagHeight*scale), dist, pal.Flag)
}

// fillBlock paints the pixels whose top-left corners fall in [x0, x1) x
// [y0, y1), clipped to the screen.
func fillBlock(screen *Image, depth *DepthBuffer, x0, y0, x1, y1, dist float64, c Pixel) {
	ix0, ix1, okx := pixelSpan(x0, x1, screen.Width)
	iy0, iy1, oky := pixelSpan(y0, y1, screen.Height)
	if !okx || !oky {
		return
	}
	for y := iy0; y < iy1; y++ {
		for x := ix0; x < ix1; x++ {
			plot(screen, depth, x, y, dist, c)
		}
	}
}

// pixelSpan converts [lo, hi) to integer pixel indices clipped to [0, limit).
func pixelSpan(lo, hi float64, limit int) (int, int, bool) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	lo = math.Max(math.Floor(lo), 0)
	hi = math.Min(math.Ceil(hi), float64(limit))
	if lo >= hi {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}
