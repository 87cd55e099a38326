package render

import (
	"math"
	"testing"

	"github.com/taigrr/voxelscape/pkg/camera"
)

var testGround = PackRGB(40, 160, 60)

// flatScene is a 16x16 terrain at height zero with a solid texture.
func flatScene() *Scene {
	return &Scene{
		Texture:   solidImage(16, 16, testGround),
		HeightMap: solidImage(16, 16, ColorBlack),
	}
}

// topGroundRow returns the first row in column x that holds terrain, found
// through the depth buffer (sky rows stay at +Inf).
func topGroundRow(depth *DepthBuffer, x int) int {
	for y := range depth.Height {
		if !math.IsInf(depth.At(x, y), 1) {
			return y
		}
	}
	return depth.Height
}

func channelDistance(a, b Pixel) int {
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	return abs(int(ar)-int(br)) + abs(int(ag)-int(bg)) + abs(int(ab)-int(bb))
}

func TestTerrainHorizonAndFog(t *testing.T) {
	const width, height = 64, 48
	k := camera.NewIntrinsics(width, height)
	e := camera.Extrinsics{Y: 1}
	screen := NewImage(width, height)
	depth := NewDepthBuffer(width, height)
	scene := flatScene()
	opts := DefaultOptions()
	opts.FogFactor = 2

	if err := DrawFrame(screen, depth, scene, k, e, opts); err != nil {
		t.Fatalf("DrawFrame: %v", err)
	}

	for _, x := range []int{0, width / 2, width - 1} {
		if got := topGroundRow(depth, x); math.Abs(float64(got)-k.Cy) > 1 {
			t.Errorf("column %d: horizon at row %d, want %v±1", x, got, k.Cy)
		}
	}

	col := width / 2
	if got := screen.At(col, height-1); got != testGround {
		t.Errorf("nearest row = %#x, want texture color %#x", uint32(got), uint32(testGround))
	}
	top := topGroundRow(depth, col)
	if d := channelDistance(screen.At(col, top), opts.Palette.Fog); d > 3 {
		t.Errorf("row at the horizon is %d away from the fog color", d)
	}

	// Moving up the screen goes farther away, so colors only get closer to fog.
	prev := channelDistance(screen.At(col, height-1), opts.Palette.Fog)
	for y := height - 2; y >= top; y-- {
		d := channelDistance(screen.At(col, y), opts.Palette.Fog)
		if d > prev {
			t.Errorf("row %d is farther from fog (%d) than row %d (%d)", y, d, y+1, prev)
		}
		prev = d
	}

	// Depth grows toward the horizon.
	for y := height - 2; y >= top; y-- {
		if depth.At(col, y) < depth.At(col, y+1) {
			t.Errorf("row %d depth %v is nearer than row %d depth %v", y, depth.At(col, y), y+1, depth.At(col, y+1))
		}
	}
}

func TestTerrainCameraAtGroundLevel(t *testing.T) {
	// Camera at the origin on flat ground: every sample lies on the view
	// plane's horizontal center line.
	const width, height = 64, 48
	k := camera.NewIntrinsics(width, height)
	screen := NewImage(width, height)
	depth := NewDepthBuffer(width, height)

	if err := DrawFrame(screen, depth, flatScene(), k, camera.Extrinsics{}, DefaultOptions()); err != nil {
		t.Fatalf("DrawFrame: %v", err)
	}
	if got := topGroundRow(depth, width/2); got < height/2-1 || got > height/2+1 {
		t.Errorf("horizon at row %d, want %d±1", got, height/2)
	}
	if got := screen.At(width/2, 0); got != DefaultPalette().SkyDark {
		t.Errorf("top row = %#x, want sky", uint32(got))
	}
}

func TestTerrainWithoutDepthBuffer(t *testing.T) {
	const width, height = 32, 24
	k := camera.NewIntrinsics(width, height)
	e := camera.Extrinsics{Y: 1}
	pal := DefaultPalette()
	scene := flatScene()

	screen := NewImage(width, height)
	DrawSky(screen, nil, pal)
	DrawTerrain(screen, nil, scene.Texture, scene.HeightMap, k, e, DefaultStepParameters(), DefaultFogFactor, pal)

	if got := screen.At(width/2, height-1); got != testGround {
		t.Errorf("bottom row = %#x, want ground", uint32(got))
	}
	if got := screen.At(width/2, 0); got != pal.SkyDark {
		t.Errorf("top row = %#x, want sky", uint32(got))
	}
}

func TestTerrainOccludedByRidge(t *testing.T) {
	// A bright wall a few units ahead hides the ground behind it.
	const width, height = 32, 24
	k := camera.NewIntrinsics(width, height)
	e := camera.Extrinsics{X: 32, Y: 1, Z: 60}

	tex := solidImage(64, 64, testGround)
	hm := solidImage(64, 64, ColorBlack)
	wall := PackRGB(255, 0, 255)
	for x := range 64 {
		for z := 50; z < 55; z++ {
			hm.Set(x, z, PackRGB(200, 200, 200)) // height 10
			tex.Set(x, z, wall)
		}
	}

	screen := NewImage(width, height)
	depth := NewDepthBuffer(width, height)
	opts := DefaultOptions()
	scene := &Scene{Texture: tex, HeightMap: hm}
	if err := DrawFrame(screen, depth, scene, k, e, opts); err != nil {
		t.Fatalf("DrawFrame: %v", err)
	}

	// The wall rises above the horizon, so the pixel just above the center
	// row shows the wall, not sky.
	if got := screen.At(width/2, height/2-2); got != wall {
		t.Errorf("pixel above the horizon = %#x, want wall %#x", uint32(got), uint32(wall))
	}
}

func TestTerrainDegenerateCameras(t *testing.T) {
	const width, height = 40, 30
	k := camera.NewIntrinsics(width, height)
	scene := flatScene()

	poses := []camera.Extrinsics{
		{Y: 1, Pitch: math.Pi / 2},  // straight up
		{Y: 1, Pitch: -math.Pi / 2}, // straight down
		{Y: -5},                     // below the ground
		{X: 1e6, Y: 3, Z: -1e6, Yaw: 2},
	}
	for _, e := range poses {
		screen := NewImage(width, height)
		depth := NewDepthBuffer(width, height)
		if err := DrawFrame(screen, depth, scene, k, e, DefaultOptions()); err != nil {
			t.Fatalf("pose %+v: %v", e, err)
		}
		for i, p := range screen.Pix {
			if p>>24 != 0xFF {
				t.Fatalf("pose %+v: pixel %d not opaque: %#x", e, i, uint32(p))
			}
		}
		for i, d := range depth.Dist {
			if math.IsNaN(d) || d <= 0 {
				t.Fatalf("pose %+v: depth %d = %v", e, i, d)
			}
		}
	}
}

func TestTerrainZeroSteps(t *testing.T) {
	const width, height = 8, 6
	k := camera.NewIntrinsics(width, height)
	screen := NewImage(width, height)
	depth := NewDepthBuffer(width, height)
	opts := DefaultOptions()
	opts.Steps.Count = 0

	if err := DrawFrame(screen, depth, flatScene(), k, camera.Extrinsics{Y: 1}, opts); err != nil {
		t.Fatalf("DrawFrame: %v", err)
	}
	for i, d := range depth.Dist {
		if !math.IsInf(d, 1) {
			t.Fatalf("depth %d = %v, want +Inf with no steps", i, d)
		}
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		factor, dist, want float64
	}{
		{300, 0, 1},
		{300, 100, 1},
		{300, 600, 0.0625},
		{2, 4, 0.0625},
		{0, 10, 0},
	}
	for _, tc := range tests {
		if got := Shade(tc.factor, tc.dist); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Shade(%v, %v) = %v, want %v", tc.factor, tc.dist, got, tc.want)
		}
	}
}

func TestStepReach(t *testing.T) {
	if got := DefaultStepParameters().Reach(); math.Abs(got-650.25) > 1e-9 {
		t.Errorf("Reach = %v, want 650.25", got)
	}
	if got := (StepParameters{}).Reach(); got != 0 {
		t.Errorf("zero steps reach %v", got)
	}
}

func BenchmarkDrawFrame(b *testing.B) {
	const width, height = 320, 200
	k := camera.NewIntrinsics(width, height)
	e := camera.Extrinsics{X: 8, Y: 4, Z: 8, Yaw: 0.3}
	screen := NewImage(width, height)
	depth := NewDepthBuffer(width, height)
	scene := flatScene()
	opts := DefaultOptions()

	for b.Loop() {
		_ = DrawFrame(screen, depth, scene, k, e, opts)
	}
}
