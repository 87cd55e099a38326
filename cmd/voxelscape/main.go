// voxelscape - Software Voxel Landscape Renderer
// Fly over a textured heightfield in your terminal or in a window.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	R/F         - Rise/sink
//	Arrows      - Turn and look up/down
//	Mouse drag  - Look around
//	Right click - Throw the ball toward the pointer
//	Space       - Throw the ball straight ahead
//	Middle click- Remove the ball
//	+/-         - More/fewer ray-march steps
//	[/]         - Shorter/longer steps
//	M           - Toggle minimap
//	H           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:   "voxelscape",
		Short: "Software voxel landscape renderer",
		Long: "voxelscape renders a first-person view over a textured heightfield,\n" +
			"ray marching one screen column at a time. Without a scene or terrain\n" +
			"images it generates a landscape from --seed.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTerm(cmd.Context(), cfg)
		},
	}
	cfg.bindFlags(root.PersistentFlags())

	root.AddCommand(
		newTermCmd(cfg),
		newWindowCmd(cfg),
		newSnapshotCmd(cfg),
		newGenCmd(cfg),
	)
	return root
}

func newTermCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Render in the terminal with half-block characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTerm(cmd.Context(), cfg)
		},
	}
}

func newWindowCmd(cfg *config) *cobra.Command {
	var scale int
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Render in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cfg, scale)
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 3, "window pixels per rendered pixel")
	return cmd
}
