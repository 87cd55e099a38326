package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/voxelscape/pkg/app"
	"github.com/taigrr/voxelscape/pkg/input"
	"github.com/taigrr/voxelscape/pkg/render"
)

func runTerm(ctx context.Context, cfg *config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger, closeLog, err := cfg.logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := app.LoadScene(cfg.source(), logger)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Any-event mouse tracking with SGR coordinates
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	width, height := render.TerminalSize(cols, rows)
	sessCfg, err := cfg.sessionConfig(width, height, logger)
	if err != nil {
		return err
	}
	session, err := app.NewSession(sc, sessCfg)
	if err != nil {
		return err
	}

	tracker := input.NewTracker(input.DefaultHold)
	resize := make(chan uv.WindowSizeEvent, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-term.Events():
				if !ok {
					tracker.RequestQuit()
					return nil
				}
				handleTermEvent(ev, tracker, resize)
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		ticker := time.NewTicker(time.Second / time.Duration(cfg.fps))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-resize:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				if err := session.Resize(render.TerminalSize(ev.Width, ev.Height)); err != nil {
					return err
				}
				continue
			case <-ticker.C:
			}

			if err := session.Step(tracker.Snapshot()); errors.Is(err, app.ErrQuit) {
				return nil
			}
			img, err := session.Render()
			if err != nil {
				return err
			}
			term.Draw(img)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("terminal session ended", "frames", session.Frames())
	return nil
}

// handleTermEvent feeds one terminal event to the tracker. Mouse rows are
// doubled because every cell holds two pixel rows.
func handleTermEvent(ev uv.Event, tracker *input.Tracker, resize chan uv.WindowSizeEvent) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		select {
		case <-resize:
		default:
		}
		resize <- ev

	case uv.KeyPressEvent:
		if b, ok := input.MatchKey(ev.MatchString); ok {
			tracker.Press(b)
		}

	case uv.KeyReleaseEvent:
		if b, ok := input.MatchKey(ev.MatchString); ok {
			tracker.Release(b)
		}

	case uv.MouseClickEvent:
		tracker.MoveMouse(ev.X, ev.Y*2)
		if b, ok := mouseButton(ev.Button); ok {
			tracker.Hold(b)
		}

	case uv.MouseReleaseEvent:
		tracker.MoveMouse(ev.X, ev.Y*2)
		if b, ok := mouseButton(ev.Button); ok {
			tracker.Release(b)
			return
		}
		// Some terminals do not say which button went up.
		tracker.Release(input.MouseLeft)
		tracker.Release(input.MouseMiddle)
		tracker.Release(input.MouseRight)

	case uv.MouseMotionEvent:
		tracker.MoveMouse(ev.X, ev.Y*2)
	}
}

func mouseButton(b uv.MouseButton) (input.Button, bool) {
	switch b {
	case uv.MouseLeft:
		return input.MouseLeft, true
	case uv.MouseMiddle:
		return input.MouseMiddle, true
	case uv.MouseRight:
		return input.MouseRight, true
	}
	return 0, false
}
