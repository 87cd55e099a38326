package app

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/voxelscape/pkg/assets"
	"github.com/taigrr/voxelscape/pkg/procgen"
	"github.com/taigrr/voxelscape/pkg/scene"
)

// Source says where a landscape comes from. A scene file wins over a
// texture and heightmap pair, which wins over generating one.
type Source struct {
	ScenePath     string
	TexturePath   string
	HeightMapPath string
	Generate      procgen.Options
}

// LoadScene resolves src into a scene.
func LoadScene(src Source, logger *slog.Logger) (*scene.Scene, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch {
	case src.ScenePath != "":
		sc, err := scene.Load(src.ScenePath)
		if err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}
		logger.Info("loaded scene", "path", src.ScenePath, "markers", len(sc.Markers))
		return sc, nil

	case src.TexturePath != "" || src.HeightMapPath != "":
		if src.TexturePath == "" || src.HeightMapPath == "" {
			return nil, fmt.Errorf("texture and heightmap must be given together")
		}
		tex, hm, err := assets.LoadTerrain(src.TexturePath, src.HeightMapPath)
		if err != nil {
			return nil, fmt.Errorf("load terrain: %w", err)
		}
		logger.Info("loaded terrain", "texture", src.TexturePath, "heightmap", src.HeightMapPath,
			"width", tex.Width, "height", tex.Height)
		return scene.New(tex, hm), nil

	default:
		tex, hm, err := procgen.Generate(src.Generate)
		if err != nil {
			return nil, fmt.Errorf("generate terrain: %w", err)
		}
		logger.Info("generated terrain", "seed", src.Generate.Seed, "size", src.Generate.Size)
		return scene.New(tex, hm), nil
	}
}
