package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taigrr/voxelscape/pkg/assets"
	"github.com/taigrr/voxelscape/pkg/procgen"
	"github.com/taigrr/voxelscape/pkg/scene"
)

type genOptions struct {
	outDir      string
	format      string
	compress    string
	sceneName   string
	octaves     int
	frequency   float64
	persistence float64
	seaLevel    float64
}

func newGenCmd(cfg *config) *cobra.Command {
	def := procgen.DefaultOptions()
	opts := genOptions{
		outDir:      ".",
		format:      "ppm",
		compress:    "none",
		sceneName:   "scene.glb",
		octaves:     def.Octaves,
		frequency:   def.Frequency,
		persistence: def.Persistence,
		seaLevel:    def.SeaLevel,
	}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a texture, heightmap and scene from simplex noise",
		Example: "  voxelscape gen --out-dir land --seed 7 --size 512 --compress zst\n" +
			"  voxelscape term --scene land/scene.glb",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGen(cfg, opts, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.outDir, "out-dir", opts.outDir, "directory for the generated files")
	fs.StringVar(&opts.format, "format", opts.format, "image format: ppm or png")
	fs.StringVar(&opts.compress, "compress", opts.compress, "image compression: none, gz or zst")
	fs.StringVar(&opts.sceneName, "scene-name", opts.sceneName, "scene file name (.glb or .gltf); empty skips it")
	fs.IntVar(&opts.octaves, "octaves", opts.octaves, "noise octaves")
	fs.Float64Var(&opts.frequency, "frequency", opts.frequency, "base noise frequency in cycles per pixel")
	fs.Float64Var(&opts.persistence, "persistence", opts.persistence, "amplitude falloff per octave")
	fs.Float64Var(&opts.seaLevel, "sea-level", opts.seaLevel, "normalized height below which terrain is flat water")
	return cmd
}

func runGen(cfg *config, opts genOptions, stdout io.Writer) error {
	comp, err := assets.ParseCompression(opts.compress)
	if err != nil {
		return err
	}
	if opts.format != "ppm" && opts.format != "png" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	logger, closeLog, err := cfg.logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	g := cfg.generator()
	g.Octaves = opts.octaves
	g.Frequency = opts.frequency
	g.Persistence = opts.persistence
	g.SeaLevel = opts.seaLevel

	tex, hm, err := procgen.Generate(g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ext := "." + opts.format + comp.Ext()
	texPath := filepath.Join(opts.outDir, "texture"+ext)
	hmPath := filepath.Join(opts.outDir, "heightmap"+ext)
	if err := assets.Save(texPath, tex); err != nil {
		return err
	}
	if err := assets.Save(hmPath, hm); err != nil {
		return err
	}
	logger.Info("generated terrain", "seed", g.Seed, "size", g.Size, "texture", texPath, "heightmap", hmPath)
	fmt.Fprintf(stdout, "Wrote %s and %s (%dx%d)\n", texPath, hmPath, tex.Width, tex.Height)

	if opts.sceneName == "" {
		return nil
	}
	scenePath := filepath.Join(opts.outDir, opts.sceneName)
	if err := scene.Save(scenePath, scene.New(tex, hm)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", scenePath)
	return nil
}
