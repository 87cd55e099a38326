// Package controller turns per-frame input into camera motion, live render
// tuning and a thrown ball.
package controller

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/input"
	"github.com/taigrr/voxelscape/pkg/math3d"
	"github.com/taigrr/voxelscape/pkg/render"
)

// Limits for live step tuning and the view angle.
const (
	MaxStepCount = 4096
	MinStepSize  = 1e-4
	MaxStepSize  = 1.0
	MaxPitch     = 1.5
)

// Config tunes how input maps to motion.
type Config struct {
	FPS              int
	MoveSpeed        float64 // World units per second, forward and sideways
	ClimbSpeed       float64 // World units per second, vertical
	TurnSpeed        float64 // Radians per second from the arrow keys
	MouseSensitivity float64 // Radians per pixel of drag
	ThrowSpeed       float64 // Initial ball speed in world units per second
	Clearance        float64 // Minimum camera height above the terrain
	StepCountDelta   int
	StepSizeFactor   float64
}

// DefaultConfig returns the stock tuning for the given frame rate.
func DefaultConfig(fps int) Config {
	return Config{
		FPS:              max(fps, 1),
		MoveSpeed:        40,
		ClimbSpeed:       10,
		TurnSpeed:        1.5,
		MouseSensitivity: 0.005,
		ThrowSpeed:       25,
		Clearance:        0.5,
		StepCountDelta:   16,
		StepSizeFactor:   1.25,
	}
}

// Ground reports the terrain height under (x, z).
type Ground func(x, z float64) float64

// HeightMapGround samples a heightmap the way the terrain renderer does.
func HeightMapGround(heightMap *render.Image) Ground {
	return func(x, z float64) float64 {
		return render.SampleHeightMap(heightMap, x, z)
	}
}

// axis eases a velocity toward its target with a critically damped spring.
type axis struct {
	Velocity float64
	accel    float64
	spring   harmonica.Spring
}

func newAxis(fps int) axis {
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *axis) update(target float64) {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, target)
}

// Controller owns the camera pose and the render settings the player can
// change.
type Controller struct {
	cfg    Config
	dt     float64
	ground Ground

	Pose    camera.Extrinsics
	Steps   render.StepParameters
	ShowMap bool
	ShowHUD bool

	strafe, advance, climb, yaw, pitch axis

	ball       *harmonica.Projectile
	ballPos    math3d.Vec3
	hasBall    bool
	ballFlying bool
}

// New creates a controller starting at pose. ground may be nil, which
// disables terrain clearance and lets the ball fall forever.
func New(cfg Config, pose camera.Extrinsics, steps render.StepParameters, ground Ground) *Controller {
	fps := max(cfg.FPS, 1)
	return &Controller{
		cfg:     cfg,
		dt:      harmonica.FPS(fps),
		ground:  ground,
		Pose:    pose,
		Steps:   steps,
		ShowHUD: true,
		strafe:  newAxis(fps),
		advance: newAxis(fps),
		climb:   newAxis(fps),
		yaw:     newAxis(fps),
		pitch:   newAxis(fps),
	}
}

// Update advances one frame and returns the new pose. k maps the pointer to
// a view ray for mouse throws.
func (c *Controller) Update(in *input.State, k camera.Intrinsics) camera.Extrinsics {
	if in.Clicked(input.ToggleMap) {
		c.ShowMap = !c.ShowMap
	}
	if in.Clicked(input.ToggleHUD) {
		c.ShowHUD = !c.ShowHUD
	}
	c.tune(in)

	c.strafe.update(in.Axis(input.StrafeLeft, input.StrafeRight) * c.cfg.MoveSpeed)
	c.advance.update(in.Axis(input.Back, input.Forward) * c.cfg.MoveSpeed)
	c.climb.update(in.Axis(input.Sink, input.Rise) * c.cfg.ClimbSpeed)
	c.yaw.update(in.Axis(input.YawLeft, input.YawRight) * c.cfg.TurnSpeed)
	c.pitch.update(in.Axis(input.PitchDown, input.PitchUp) * c.cfg.TurnSpeed)

	pose := camera.Translate(c.Pose, c.strafe.Velocity*c.dt, 0, c.advance.Velocity*c.dt)
	pose.Y += c.climb.Velocity * c.dt
	pose.Yaw += c.yaw.Velocity * c.dt
	pose.Pitch += c.pitch.Velocity * c.dt

	if in.Pressed(input.MouseLeft) {
		pose.Yaw += float64(in.DX) * c.cfg.MouseSensitivity
		pose.Pitch -= float64(in.DY) * c.cfg.MouseSensitivity
	}

	pose.Yaw = math.Remainder(pose.Yaw, 2*math.Pi)
	pose.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, pose.Pitch))
	if c.ground != nil {
		pose.Y = math.Max(pose.Y, c.ground(pose.X, pose.Z)+c.cfg.Clearance)
	}
	c.Pose = pose

	switch {
	case in.Clicked(input.Throw):
		_, forward := camera.Basis(pose)
		c.throw(forward)
	case in.Clicked(input.MouseRight):
		c.throw(camera.Ray(k, pose, float64(in.MouseX)+0.5, float64(in.MouseY)+0.5))
	case in.Clicked(input.MouseMiddle):
		c.hasBall, c.ballFlying, c.ball = false, false, nil
	}
	c.flyBall()

	return c.Pose
}

func (c *Controller) tune(in *input.State) {
	s := c.Steps
	if in.Clicked(input.MoreSteps) {
		s.Count = min(s.Count+c.cfg.StepCountDelta, MaxStepCount)
	}
	if in.Clicked(input.FewerSteps) {
		s.Count = max(s.Count-c.cfg.StepCountDelta, 0)
	}
	if in.Clicked(input.LongerSteps) {
		s.Size = math.Min(s.Size*c.cfg.StepSizeFactor, MaxStepSize)
	}
	if in.Clicked(input.ShorterSteps) {
		s.Size = math.Max(s.Size/c.cfg.StepSizeFactor, MinStepSize)
	}
	c.Steps = s
}

func (c *Controller) throw(dir math3d.Vec3) {
	dir = dir.Normalize()
	if dir.Len() == 0 {
		return
	}
	pos := c.Pose.Position()
	vel := dir.Scale(c.cfg.ThrowSpeed)
	c.ball = harmonica.NewProjectile(c.dt,
		harmonica.Point{X: pos.X, Y: pos.Y, Z: pos.Z},
		harmonica.Vector{X: vel.X, Y: vel.Y, Z: vel.Z},
		harmonica.Gravity,
	)
	c.ballPos = pos
	c.hasBall, c.ballFlying = true, true
}

func (c *Controller) flyBall() {
	if !c.ballFlying {
		return
	}
	p := c.ball.Update()
	c.ballPos = math3d.V3(p.X, p.Y, p.Z)
	if c.ground == nil {
		return
	}
	if g := c.ground(p.X, p.Z); p.Y <= g {
		c.ballPos.Y = g
		c.ballFlying = false
		c.ball = nil
	}
}

// Ball returns the ball position, if one has been thrown.
func (c *Controller) Ball() (math3d.Vec3, bool) {
	return c.ballPos, c.hasBall
}

// BallFlying reports whether the ball is still in the air.
func (c *Controller) BallFlying() bool {
	return c.ballFlying
}
