package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/voxelscape/pkg/camera"
)

var (
	// ErrNilBuffer is returned when a required buffer is missing or empty.
	ErrNilBuffer = errors.New("render: nil or empty buffer")
	// ErrDimensionMismatch is returned when buffers that must agree in size do not.
	ErrDimensionMismatch = errors.New("render: dimension mismatch")
	// ErrInvalidParameters is returned for unusable step or lens parameters.
	ErrInvalidParameters = errors.New("render: invalid parameters")
)

// Scene is the static content of a frame: the terrain and the markers
// standing on it.
type Scene struct {
	Texture   *Image
	HeightMap *Image
	Markers   []Marker
}

// Options tune a single frame.
type Options struct {
	Steps     StepParameters
	FogFactor float64
	Palette   Palette
	ShowMap   bool
	HUD       []string // Lines of overlay text; nil for none
}

// DefaultOptions returns the stock frame options.
func DefaultOptions() Options {
	return Options{
		Steps:     DefaultStepParameters(),
		FogFactor: DefaultFogFactor,
		Palette:   DefaultPalette(),
	}
}

// Validate checks every precondition DrawFrame relies on.
func Validate(screen *Image, depth *DepthBuffer, scene *Scene, k camera.Intrinsics, opts Options) error {
	switch {
	case screen == nil || len(screen.Pix) == 0:
		return fmt.Errorf("screen: %w", ErrNilBuffer)
	case depth == nil:
		return fmt.Errorf("depth buffer: %w", ErrNilBuffer)
	case scene == nil:
		return fmt.Errorf("scene: %w", ErrNilBuffer)
	case scene.Texture == nil || len(scene.Texture.Pix) == 0:
		return fmt.Errorf("texture: %w", ErrNilBuffer)
	case scene.HeightMap == nil || len(scene.HeightMap.Pix) == 0:
		return fmt.Errorf("heightmap: %w", ErrNilBuffer)
	}

	if len(screen.Pix) != screen.Width*screen.Height {
		return fmt.Errorf("screen holds %d pixels for %dx%d: %w",
			len(screen.Pix), screen.Width, screen.Height, ErrDimensionMismatch)
	}
	if depth.Width != screen.Width || depth.Height != screen.Height || len(depth.Dist) != len(screen.Pix) {
		return fmt.Errorf("depth buffer is %dx%d, screen is %dx%d: %w",
			depth.Width, depth.Height, screen.Width, screen.Height, ErrDimensionMismatch)
	}
	if !scene.Texture.SameSize(scene.HeightMap) {
		return fmt.Errorf("texture is %dx%d, heightmap is %dx%d: %w",
			scene.Texture.Width, scene.Texture.Height,
			scene.HeightMap.Width, scene.HeightMap.Height, ErrDimensionMismatch)
	}
	if len(scene.Texture.Pix) != scene.Texture.Width*scene.Texture.Height ||
		len(scene.HeightMap.Pix) != scene.HeightMap.Width*scene.HeightMap.Height {
		return fmt.Errorf("terrain pixel count: %w", ErrDimensionMismatch)
	}
	if k.Width != screen.Width || k.Height != screen.Height {
		return fmt.Errorf("intrinsics are for %dx%d, screen is %dx%d: %w",
			k.Width, k.Height, screen.Width, screen.Height, ErrDimensionMismatch)
	}

	if !(k.Fx > 0) || !(k.Fy > 0) {
		return fmt.Errorf("focal length (%v, %v): %w", k.Fx, k.Fy, ErrInvalidParameters)
	}
	if opts.Steps.Count < 0 {
		return fmt.Errorf("step count %d: %w", opts.Steps.Count, ErrInvalidParameters)
	}
	if !(opts.Steps.Size >= 0) || !isFinite(opts.Steps.Size) {
		return fmt.Errorf("step size %v: %w", opts.Steps.Size, ErrInvalidParameters)
	}
	if !(opts.FogFactor >= 0) || !isFinite(opts.FogFactor) {
		return fmt.Errorf("fog factor %v: %w", opts.FogFactor, ErrInvalidParameters)
	}
	return nil
}

// DrawFrame renders one complete frame into screen: sky, terrain, markers,
// then the minimap and HUD overlays when enabled. Nothing is painted if a
// precondition fails.
func DrawFrame(screen *Image, depth *DepthBuffer, scene *Scene, k camera.Intrinsics, e camera.Extrinsics, opts Options) error {
	if err := Validate(screen, depth, scene, k, opts); err != nil {
		return err
	}
	if !e.Position().IsFinite() || !isFinite(e.Yaw) || !isFinite(e.Pitch) {
		return fmt.Errorf("camera pose %+v: %w", e, ErrInvalidParameters)
	}

	DrawSky(screen, depth, opts.Palette)
	DrawTerrain(screen, depth, scene.Texture, scene.HeightMap, k, e, opts.Steps, opts.FogFactor, opts.Palette)
	DrawMarkers(screen, depth, k, e, scene.Markers, opts.Palette)
	if opts.ShowMap {
		DrawMinimap(screen, scene.Texture, e, scene.Markers, opts.Palette)
	}
	if len(opts.HUD) > 0 {
		DrawHUD(screen, opts.HUD, opts.Palette.Text)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
