// Package app ties a scene, a controller and the frame buffers into a
// session that the frontends advance once per frame.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/controller"
	"github.com/taigrr/voxelscape/pkg/input"
	"github.com/taigrr/voxelscape/pkg/render"
	"github.com/taigrr/voxelscape/pkg/scene"
)

// ErrQuit is returned by Step once the player has asked to leave.
var ErrQuit = errors.New("app: quit requested")

// Config configures a session.
type Config struct {
	Width, Height int
	Options       render.Options
	Controller    controller.Config
	Logger        *slog.Logger // nil discards diagnostics
}

// Session owns everything needed to produce frames.
type Session struct {
	cfg    Config
	logger *slog.Logger

	scene *scene.Scene
	ctrl  *controller.Controller
	in    input.State

	k      camera.Intrinsics
	screen *render.Image
	depth  *render.DepthBuffer

	fps        fpsCounter
	renderTime time.Duration
	frame      int
	markers    []render.Marker
}

// NewSession creates a session rendering sc at the configured size.
func NewSession(sc *scene.Scene, cfg Config) (*Session, error) {
	if sc == nil || sc.Texture == nil || sc.HeightMap == nil {
		return nil, fmt.Errorf("scene: %w", render.ErrNilBuffer)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		cfg:    cfg,
		logger: logger,
		scene:  sc,
		ctrl:   controller.New(cfg.Controller, sc.Camera, cfg.Options.Steps, controller.HeightMapGround(sc.HeightMap)),
		fps:    newFPSCounter(time.Now),
	}
	s.ctrl.ShowMap = cfg.Options.ShowMap
	if err := s.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	logger.Info("session started",
		"width", cfg.Width, "height", cfg.Height,
		"terrain", fmt.Sprintf("%dx%d", sc.Texture.Width, sc.Texture.Height),
		"markers", len(sc.Markers))
	return s, nil
}

// Resize reallocates the frame buffers and intrinsics.
func (s *Session) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("frame size %dx%d: %w", width, height, render.ErrInvalidParameters)
	}
	s.cfg.Width, s.cfg.Height = width, height
	s.k = camera.NewIntrinsics(width, height)
	s.screen = render.NewImage(width, height)
	s.depth = render.NewDepthBuffer(width, height)
	s.logger.Debug("resized", "width", width, "height", height)
	return nil
}

// Step feeds one frame of input to the controller. It returns ErrQuit when
// the player asked to leave.
func (s *Session) Step(snap input.Snapshot) error {
	s.in.Update(snap)
	if s.in.Quit {
		return ErrQuit
	}
	s.ctrl.Update(&s.in, s.k)
	return nil
}

// Render draws the current frame into the session's screen buffer and
// returns it. The buffer is reused by the next call.
func (s *Session) Render() (*render.Image, error) {
	start := time.Now()

	opts := s.cfg.Options
	opts.Steps = s.ctrl.Steps
	opts.ShowMap = s.ctrl.ShowMap
	opts.HUD = nil
	if s.ctrl.ShowHUD {
		opts.HUD = s.hudLines()
	}

	s.markers = append(s.markers[:0], s.scene.Markers...)
	if p, ok := s.ctrl.Ball(); ok {
		s.markers = append(s.markers, render.Marker{Kind: render.MarkerBall, Position: p})
	}
	frame := &render.Scene{
		Texture:   s.scene.Texture,
		HeightMap: s.scene.HeightMap,
		Markers:   s.markers,
	}

	if err := render.DrawFrame(s.screen, s.depth, frame, s.k, s.ctrl.Pose, opts); err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.frame, err)
	}

	s.renderTime = time.Since(start)
	s.frame++
	if s.fps.tick() {
		s.logFrame()
	}
	return s.screen, nil
}

func (s *Session) logFrame() {
	pose := s.ctrl.Pose
	s.logger.Debug("frame",
		"n", s.frame,
		"fps", fmt.Sprintf("%.1f", s.fps.rate),
		"render", s.renderTime,
		"steps", s.ctrl.Steps.Count,
		"step_size", s.ctrl.Steps.Size,
		"x", pose.X, "y", pose.Y, "z", pose.Z)
}

func (s *Session) hudLines() []string {
	pose := s.ctrl.Pose
	return []string{
		fmt.Sprintf("%.0f fps %s", s.fps.rate, s.renderTime.Round(100*time.Microsecond)),
		fmt.Sprintf("pos %.1f %.1f %.1f", pose.X, pose.Y, pose.Z),
		fmt.Sprintf("steps %d x %.4f", s.ctrl.Steps.Count, s.ctrl.Steps.Size),
	}
}

// Pose returns the current camera pose.
func (s *Session) Pose() camera.Extrinsics { return s.ctrl.Pose }

// Controller exposes the session's controller.
func (s *Session) Controller() *controller.Controller { return s.ctrl }

// Intrinsics returns the lens for the current frame size.
func (s *Session) Intrinsics() camera.Intrinsics { return s.k }

// Frames returns the number of frames rendered.
func (s *Session) Frames() int { return s.frame }
