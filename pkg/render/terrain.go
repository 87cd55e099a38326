package render

import (
	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/math3d"
)

// DefaultFogFactor is the shading constant used when none is configured.
const DefaultFogFactor = 300.0

// StepParameters control how far and how finely each column is marched.
// Step k lands at a distance of k*k*Size along the column's ray.
type StepParameters struct {
	Count int
	Size  float64
}

// DefaultStepParameters returns 256 steps of 0.01.
func DefaultStepParameters() StepParameters {
	return StepParameters{Count: 256, Size: 0.01}
}

// Reach returns the distance along the ray covered by the last step.
func (s StepParameters) Reach() float64 {
	if s.Count <= 0 {
		return 0
	}
	last := float64(s.Count - 1)
	return last * last * s.Size
}

// Shade returns the fog shading factor for a sample at the given distance:
// clamp(factor/distance, 0, 1) to the fourth power. 1 means full texture
// color, 0 means full fog.
func Shade(factor, distance float64) float64 {
	s := factor / max(distance, MinDistance)
	if !(s > 0) {
		return 0
	}
	s = min(s, 1)
	s *= s
	return s * s
}

// DrawTerrain ray-marches every screen column against the heightmap and
// paints the textured ground, fading into pal.Fog with distance.
//
// Each column walks outward from the camera. A sample that projects above
// every row painted so far in that column fills the rows between; samples
// that project lower are hidden behind nearer ground. With a non-nil depth
// buffer every pixel is also depth tested, using the sample's camera-space
// forward distance.
//
// texture and heightMap must be non-empty and share dimensions; DrawFrame
// checks this before calling.
func DrawTerrain(
	screen *Image,
	depth *DepthBuffer,
	texture, heightMap *Image,
	k camera.Intrinsics,
	e camera.Extrinsics,
	steps StepParameters,
	fogFactor float64,
	pal Palette,
) {
	imageFromWorld := camera.ImageFromWorld(k, e)
	right, forward := camera.Basis(e)

	const dzInCamera = 1.0
	halfWidth := 0.5 * float64(screen.Width)
	height := float64(screen.Height)

	for sx := range screen.Width {
		dxInCamera := (float64(sx) - halfWidth) / k.Fx
		dir := right.Scale(dxInCamera).Add(forward.Scale(dzInCamera))

		latest := screen.Height
		for step := 0; step < steps.Count && latest > 0; step++ {
			length := float64(step) * float64(step) * steps.Size

			x := e.X + dir.X*length
			z := e.Z + dir.Z*length
			y := SampleHeightMap(heightMap, x, z)

			_, v, dist, ok := camera.Project(imageFromWorld, math3d.V3(x, y, z))
			if !ok || v >= height {
				continue
			}
			next := 0
			if v > 0 {
				next = int(v)
			}
			if next >= latest {
				continue
			}

			shading := Shade(fogFactor, dzInCamera*length)
			c := InterpolateColor(pal.Fog, SampleTexture(texture, x, z), shading)
			for sy := next; sy < latest; sy++ {
				plot(screen, depth, sx, sy, dist, c)
			}
			latest = next
		}
	}
}
