package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/math3d"
	"github.com/taigrr/voxelscape/pkg/render"
)

func terrain() (*render.Image, *render.Image) {
	tex := render.NewImage(8, 6)
	hm := render.NewImage(8, 6)
	for y := range tex.Height {
		for x := range tex.Width {
			tex.Set(x, y, render.PackRGB(uint8(x*30), uint8(y*40), 90))
			hm.Set(x, y, render.PackRGB(0, 0, uint8(x*10+y)))
		}
	}
	return tex, hm
}

func testScene() *Scene {
	tex, hm := terrain()
	return &Scene{
		Camera:    camera.Extrinsics{X: 4, Y: 12.5, Z: 3, Yaw: 0.75, Pitch: -0.25},
		Texture:   tex,
		HeightMap: hm,
		Markers: []render.Marker{
			{Kind: render.MarkerFlag, Position: math3d.V3(1, 2, 3)},
			{Kind: render.MarkerBall, Position: math3d.V3(5, 0.5, 1)},
			{Kind: render.MarkerFlag, Position: math3d.V3(7, 1, 0)},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"scene.gltf", "scene.glb"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := testScene()
			if err := Save(path, want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if got.Camera != want.Camera {
				t.Errorf("camera = %+v, want %+v", got.Camera, want.Camera)
			}
			if len(got.Markers) != len(want.Markers) {
				t.Fatalf("got %d markers, want %d", len(got.Markers), len(want.Markers))
			}
			for i, m := range want.Markers {
				g := got.Markers[i]
				if g.Kind != m.Kind || g.Position.Distance(m.Position) > 1e-9 {
					t.Errorf("marker %d = %+v, want %+v", i, g, m)
				}
			}
			for _, pair := range [][2]*render.Image{{got.Texture, want.Texture}, {got.HeightMap, want.HeightMap}} {
				if !pair[0].SameSize(pair[1]) {
					t.Fatalf("image size %dx%d", pair[0].Width, pair[0].Height)
				}
				for i := range pair[1].Pix {
					if pair[0].Pix[i] != pair[1].Pix[i] {
						t.Fatalf("pixel %d = %#x, want %#x", i, uint32(pair[0].Pix[i]), uint32(pair[1].Pix[i]))
					}
				}
			}
		})
	}
}

func TestSaveGLTFWritesSideImages(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, "land.gltf"), testScene()); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"land.texture.png", "land.heightmap.png"} {
		if !Exists(filepath.Join(dir, f)) {
			t.Errorf("%s not written", f)
		}
	}
}

func TestLoadNonExistent(t *testing.T) {
	if _, err := Load("nonexistent.gltf"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadMissingImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.gltf")
	doc := `{"asset":{"version":"2.0"},"nodes":[{"name":"camera","translation":[1,2,3]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrMissingImage) {
		t.Errorf("err = %v, want ErrMissingImage", err)
	}
}

func TestSaveWithoutTerrain(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "x.glb"), &Scene{}); !errors.Is(err, ErrMissingImage) {
		t.Errorf("err = %v, want ErrMissingImage", err)
	}
}

func TestNewPlacesCameraAboveGround(t *testing.T) {
	tex, hm := terrain()
	s := New(tex, hm)

	ground := render.SampleHeightMap(hm, s.Camera.X, s.Camera.Z)
	if s.Camera.Y <= ground {
		t.Errorf("camera y %v not above ground %v", s.Camera.Y, ground)
	}
	if len(s.Markers) != 1 || s.Markers[0].Kind != render.MarkerFlag {
		t.Fatalf("markers = %+v", s.Markers)
	}
	flag := s.Markers[0].Position
	if math.Abs(flag.Y-render.SampleHeightMap(hm, flag.X, flag.Z)) > 1e-12 {
		t.Errorf("flag not on the ground: %+v", flag)
	}

	f := s.Frame()
	if f.Texture != tex || f.HeightMap != hm || len(f.Markers) != 1 {
		t.Errorf("frame = %+v", f)
	}
}
