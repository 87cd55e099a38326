package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/voxelscape/pkg/app"
	"github.com/taigrr/voxelscape/pkg/assets"
	"github.com/taigrr/voxelscape/pkg/input"
	"github.com/taigrr/voxelscape/pkg/render"
)

type snapshotOptions struct {
	out    string
	frames int
	throw  bool
}

func newSnapshotCmd(cfg *config) *cobra.Command {
	opts := snapshotOptions{out: "frame.png", frames: 1}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames without a display and save the last one",
		Example: "  voxelscape snapshot --out frame.png\n" +
			"  voxelscape snapshot --scene valley.glb --frames 60 --throw --out throw.ppm.zst",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output image (.png or .ppm, optionally .gz/.zst)")
	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "number of frames to simulate")
	cmd.Flags().BoolVar(&opts.throw, "throw", opts.throw, "throw the ball on the first frame")
	return cmd
}

func runSnapshot(cfg *config, opts snapshotOptions, stdout io.Writer) error {
	if opts.frames <= 0 {
		return fmt.Errorf("invalid frame count %d", opts.frames)
	}
	logger, closeLog, err := cfg.logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	sessCfg, err := cfg.sessionConfig(cfg.width, cfg.height, logger)
	if err != nil {
		return err
	}
	sc, err := app.LoadScene(cfg.source(), logger)
	if err != nil {
		return err
	}
	session, err := app.NewSession(sc, sessCfg)
	if err != nil {
		return err
	}

	var img *render.Image
	for i := range opts.frames {
		var snap input.Snapshot
		snap.Down[input.Throw] = opts.throw && i == 0
		if err := session.Step(snap); err != nil {
			return err
		}
		if img, err = session.Render(); err != nil {
			return err
		}
	}

	if err := assets.Save(opts.out, img); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s (%dx%d)\n", opts.out, img.Width, img.Height)
	return nil
}
