package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/voxelscape/pkg/app"
	"github.com/taigrr/voxelscape/pkg/input"
)

var windowKeys = map[ebiten.Key]input.Button{
	ebiten.KeyW:              input.Forward,
	ebiten.KeyS:              input.Back,
	ebiten.KeyA:              input.StrafeLeft,
	ebiten.KeyD:              input.StrafeRight,
	ebiten.KeyR:              input.Rise,
	ebiten.KeyF:              input.Sink,
	ebiten.KeyArrowLeft:      input.YawLeft,
	ebiten.KeyArrowRight:     input.YawRight,
	ebiten.KeyArrowUp:        input.PitchUp,
	ebiten.KeyArrowDown:      input.PitchDown,
	ebiten.KeyEqual:          input.MoreSteps,
	ebiten.KeyNumpadAdd:      input.MoreSteps,
	ebiten.KeyMinus:          input.FewerSteps,
	ebiten.KeyNumpadSubtract: input.FewerSteps,
	ebiten.KeyBracketRight:   input.LongerSteps,
	ebiten.KeyBracketLeft:    input.ShorterSteps,
	ebiten.KeySpace:          input.Throw,
	ebiten.KeyM:              input.ToggleMap,
	ebiten.KeyH:              input.ToggleHUD,
	ebiten.KeyEscape:         input.Quit,
}

var windowMouse = map[ebiten.MouseButton]input.Button{
	ebiten.MouseButtonLeft:   input.MouseLeft,
	ebiten.MouseButtonMiddle: input.MouseMiddle,
	ebiten.MouseButtonRight:  input.MouseRight,
}

// windowGame presents session frames through ebiten. Rendering happens in
// Update so Draw only uploads pixels.
type windowGame struct {
	session *app.Session
	width   int
	height  int
	frame   *ebiten.Image
	pixels  []byte
	keys    []ebiten.Key
}

func (g *windowGame) Update() error {
	var snap input.Snapshot
	g.keys = inpututil.AppendPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if b, ok := windowKeys[k]; ok {
			snap.Down[b] = true
		}
	}
	for mb, b := range windowMouse {
		if ebiten.IsMouseButtonPressed(mb) {
			snap.Down[b] = true
		}
	}
	snap.MouseX, snap.MouseY = ebiten.CursorPosition()
	snap.MouseValid = true
	snap.Quit = ebiten.IsWindowBeingClosed()

	if err := g.session.Step(snap); errors.Is(err, app.ErrQuit) {
		return ebiten.Termination
	} else if err != nil {
		return err
	}
	img, err := g.session.Render()
	if err != nil {
		return err
	}
	img.CopyRGBA(g.pixels)
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.frame.WritePixels(g.pixels)
	screen.DrawImage(g.frame, nil)
}

func (g *windowGame) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

func runWindow(cfg *config, scale int) error {
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

	g := &windowGame{
		session: session,
		width:   cfg.width,
		height:  cfg.height,
		frame:   ebiten.NewImage(cfg.width, cfg.height),
		pixels:  make([]byte, cfg.width*cfg.height*4),
	}

	scale = max(scale, 1)
	ebiten.SetWindowTitle("voxelscape")
	ebiten.SetWindowSize(cfg.width*scale, cfg.height*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.fps)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	logger.Info("window session ended", "frames", session.Frames())
	return nil
}
