package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/taigrr/voxelscape/pkg/app"
	"github.com/taigrr/voxelscape/pkg/controller"
	"github.com/taigrr/voxelscape/pkg/procgen"
	"github.com/taigrr/voxelscape/pkg/render"
)

// config holds the flags shared by every subcommand.
type config struct {
	scenePath     string
	texturePath   string
	heightMapPath string

	width, height int
	fps           int

	steps    int
	stepSize float64
	fog      float64
	skyDark  string
	skyLight string
	fogColor string
	showMap  bool
	showHUD  bool

	seed    int64
	size    int
	logPath string
	verbose bool
}

func defaultConfig() *config {
	pal := render.DefaultPalette()
	steps := render.DefaultStepParameters()
	return &config{
		width:    320,
		height:   200,
		fps:      30,
		steps:    steps.Count,
		stepSize: steps.Size,
		fog:      render.DefaultFogFactor,
		skyDark:  pal.SkyDark.Hex(),
		skyLight: pal.SkyLight.Hex(),
		showHUD:  true,
		seed:     1,
		size:     1024,
	}
}

func (c *config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.scenePath, "scene", c.scenePath, "glTF scene (.gltf/.glb) with camera, markers and terrain images")
	fs.StringVar(&c.texturePath, "texture", c.texturePath, "terrain color image (PPM/PNG/JPEG, optionally .gz/.zst)")
	fs.StringVar(&c.heightMapPath, "heightmap", c.heightMapPath, "terrain height image, same size as the texture")
	fs.IntVar(&c.width, "width", c.width, "render width in pixels (window and snapshot)")
	fs.IntVar(&c.height, "height", c.height, "render height in pixels (window and snapshot)")
	fs.IntVar(&c.fps, "fps", c.fps, "target frames per second")
	fs.IntVar(&c.steps, "steps", c.steps, "ray-march steps per column")
	fs.Float64Var(&c.stepSize, "step-size", c.stepSize, "ray-march step size")
	fs.Float64Var(&c.fog, "fog", c.fog, "fog factor; larger values push the fog back")
	fs.StringVar(&c.skyDark, "sky-dark", c.skyDark, "sky color at the top of the screen")
	fs.StringVar(&c.skyLight, "sky-light", c.skyLight, "sky color at the horizon")
	fs.StringVar(&c.fogColor, "fog-color", c.fogColor, "distant terrain color (defaults to --sky-light)")
	fs.BoolVar(&c.showMap, "map", c.showMap, "show the minimap")
	fs.BoolVar(&c.showHUD, "hud", c.showHUD, "show the text overlay")
	fs.Int64Var(&c.seed, "seed", c.seed, "seed for generated terrain")
	fs.IntVar(&c.size, "size", c.size, "size of generated terrain in pixels")
	fs.StringVar(&c.logPath, "log", c.logPath, "write diagnostics to this file")
	fs.BoolVar(&c.verbose, "verbose", c.verbose, "include per-frame diagnostics in the log")
}

func (c *config) validate() error {
	switch {
	case c.width <= 0 || c.height <= 0:
		return fmt.Errorf("invalid size %dx%d", c.width, c.height)
	case c.fps <= 0:
		return fmt.Errorf("invalid fps %d", c.fps)
	case c.steps < 0:
		return fmt.Errorf("invalid step count %d", c.steps)
	case !(c.stepSize > 0):
		return fmt.Errorf("invalid step size %v", c.stepSize)
	case c.size <= 0:
		return fmt.Errorf("invalid terrain size %d", c.size)
	}
	return nil
}

func (c *config) palette() (render.Palette, error) {
	pal := render.DefaultPalette()
	var err error
	if pal.SkyDark, err = render.ParseHex(c.skyDark); err != nil {
		return pal, fmt.Errorf("--sky-dark: %w", err)
	}
	if pal.SkyLight, err = render.ParseHex(c.skyLight); err != nil {
		return pal, fmt.Errorf("--sky-light: %w", err)
	}
	pal.Fog = pal.SkyLight
	if c.fogColor != "" {
		if pal.Fog, err = render.ParseHex(c.fogColor); err != nil {
			return pal, fmt.Errorf("--fog-color: %w", err)
		}
	}
	return pal, nil
}

func (c *config) generator() procgen.Options {
	o := procgen.DefaultOptions()
	o.Seed = c.seed
	o.Size = c.size
	return o
}

func (c *config) source() app.Source {
	return app.Source{
		ScenePath:     c.scenePath,
		TexturePath:   c.texturePath,
		HeightMapPath: c.heightMapPath,
		Generate:      c.generator(),
	}
}

// sessionConfig builds the session settings for a frame of the given size.
func (c *config) sessionConfig(width, height int, logger *slog.Logger) (app.Config, error) {
	if err := c.validate(); err != nil {
		return app.Config{}, err
	}
	pal, err := c.palette()
	if err != nil {
		return app.Config{}, err
	}
	opts := render.DefaultOptions()
	opts.Steps = render.StepParameters{Count: c.steps, Size: c.stepSize}
	opts.FogFactor = c.fog
	opts.Palette = pal
	opts.ShowMap = c.showMap

	ctrl := controller.DefaultConfig(c.fps)
	return app.Config{
		Width:      width,
		Height:     height,
		Options:    opts,
		Controller: ctrl,
		Logger:     logger,
	}, nil
}

// logger opens the diagnostics log. Without --log it writes to fallback,
// which may be io.Discard.
func (c *config) logger(fallback io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	w, closer := fallback, func() error { return nil }
	if c.logPath != "" {
		f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		w, closer = f, f.Close
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}
