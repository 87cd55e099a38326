package controller

import (
	"math"
	"testing"

	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/input"
	"github.com/taigrr/voxelscape/pkg/render"
)

const fps = 30

var testK = camera.NewIntrinsics(64, 48)

func flat(h float64) Ground {
	return func(x, z float64) float64 { return h }
}

// press returns a state with the given buttons freshly clicked.
func press(buttons ...input.Button) *input.State {
	var snap input.Snapshot
	for _, b := range buttons {
		snap.Down[b] = true
	}
	var s input.State
	s.Update(snap)
	return &s
}

// hold drives c for n frames with the buttons held down.
func hold(c *Controller, n int, buttons ...input.Button) {
	var snap input.Snapshot
	for _, b := range buttons {
		snap.Down[b] = true
	}
	var s input.State
	for range n {
		s.Update(snap)
		c.Update(&s, testK)
	}
}

func TestIdleControllerStaysPut(t *testing.T) {
	start := camera.Extrinsics{X: 3, Y: 4, Z: 5, Yaw: 0.3, Pitch: 0.1}
	c := New(DefaultConfig(fps), start, render.DefaultStepParameters(), nil)
	hold(c, 10)
	if c.Pose != start {
		t.Errorf("pose drifted to %+v", c.Pose)
	}
}

func TestMoveForward(t *testing.T) {
	start := camera.Extrinsics{X: 10, Y: 5, Z: 10}
	c := New(DefaultConfig(fps), start, render.DefaultStepParameters(), nil)
	hold(c, 30, input.Forward)

	if c.Pose.Z >= start.Z-1 {
		t.Errorf("z = %v, expected to move toward -z from %v", c.Pose.Z, start.Z)
	}
	if math.Abs(c.Pose.X-start.X) > 1e-9 || math.Abs(c.Pose.Y-start.Y) > 1e-9 {
		t.Errorf("moved off the view axis: %+v", c.Pose)
	}

	// Releasing eases to a stop.
	hold(c, 60)
	z := c.Pose.Z
	hold(c, 5)
	if math.Abs(c.Pose.Z-z) > 1e-3 {
		t.Errorf("still coasting: %v -> %v", z, c.Pose.Z)
	}
}

func TestStrafeAndClimb(t *testing.T) {
	start := camera.Extrinsics{Y: 5}
	c := New(DefaultConfig(fps), start, render.DefaultStepParameters(), nil)
	hold(c, 20, input.StrafeRight, input.Rise)
	if c.Pose.X <= 0 {
		t.Errorf("x = %v, expected to strafe toward +x", c.Pose.X)
	}
	if c.Pose.Y <= start.Y {
		t.Errorf("y = %v, expected to climb", c.Pose.Y)
	}
}

func TestTurnAndPitchClamp(t *testing.T) {
	c := New(DefaultConfig(fps), camera.Extrinsics{}, render.DefaultStepParameters(), nil)
	hold(c, 10, input.YawRight)
	if c.Pose.Yaw <= 0 {
		t.Errorf("yaw = %v, expected to turn right", c.Pose.Yaw)
	}

	hold(c, 300, input.PitchUp)
	if c.Pose.Pitch != MaxPitch {
		t.Errorf("pitch = %v, want clamped to %v", c.Pose.Pitch, MaxPitch)
	}
}

func TestMouseDrag(t *testing.T) {
	cfg := DefaultConfig(fps)
	c := New(cfg, camera.Extrinsics{}, render.DefaultStepParameters(), nil)

	var s input.State
	var snap input.Snapshot
	snap.Down[input.MouseLeft] = true
	snap.MouseX, snap.MouseY, snap.MouseValid = 20, 20, true
	s.Update(snap)
	c.Update(&s, testK)

	snap.MouseX, snap.MouseY = 30, 16
	s.Update(snap)
	c.Update(&s, testK)

	if want := 10 * cfg.MouseSensitivity; math.Abs(c.Pose.Yaw-want) > 1e-12 {
		t.Errorf("yaw = %v, want %v", c.Pose.Yaw, want)
	}
	if want := 4 * cfg.MouseSensitivity; math.Abs(c.Pose.Pitch-want) > 1e-12 {
		t.Errorf("pitch = %v, want %v", c.Pose.Pitch, want)
	}
}

func TestYawWraps(t *testing.T) {
	c := New(DefaultConfig(fps), camera.Extrinsics{Yaw: 3 * math.Pi}, render.DefaultStepParameters(), nil)
	hold(c, 1)
	if math.Abs(c.Pose.Yaw) > math.Pi+1e-12 {
		t.Errorf("yaw = %v not wrapped", c.Pose.Yaw)
	}
}

func TestGroundClearance(t *testing.T) {
	cfg := DefaultConfig(fps)
	c := New(cfg, camera.Extrinsics{Y: 3}, render.DefaultStepParameters(), flat(2))
	hold(c, 60, input.Sink)
	if math.Abs(c.Pose.Y-(2+cfg.Clearance)) > 1e-12 {
		t.Errorf("y = %v, want %v", c.Pose.Y, 2+cfg.Clearance)
	}
}

func TestToggles(t *testing.T) {
	c := New(DefaultConfig(fps), camera.Extrinsics{}, render.DefaultStepParameters(), nil)
	if c.ShowMap || !c.ShowHUD {
		t.Fatalf("defaults: map=%v hud=%v", c.ShowMap, c.ShowHUD)
	}
	c.Update(press(input.ToggleMap, input.ToggleHUD), testK)
	if !c.ShowMap || c.ShowHUD {
		t.Errorf("after toggle: map=%v hud=%v", c.ShowMap, c.ShowHUD)
	}

	// Holding toggles once.
	c.ShowMap = false
	hold(c, 5, input.ToggleMap)
	if !c.ShowMap {
		t.Error("held toggle flipped more than once")
	}
}

func TestStepTuning(t *testing.T) {
	cfg := DefaultConfig(fps)
	steps := render.StepParameters{Count: 20, Size: 0.01}

	tests := []struct {
		name   string
		button input.Button
		start  render.StepParameters
		want   render.StepParameters
	}{
		{"more", input.MoreSteps, steps, render.StepParameters{Count: 36, Size: 0.01}},
		{"fewer", input.FewerSteps, steps, render.StepParameters{Count: 4, Size: 0.01}},
		{"fewer floor", input.FewerSteps, render.StepParameters{Count: 3, Size: 0.01}, render.StepParameters{Count: 0, Size: 0.01}},
		{"more cap", input.MoreSteps, render.StepParameters{Count: MaxStepCount - 1, Size: 0.01}, render.StepParameters{Count: MaxStepCount, Size: 0.01}},
		{"longer", input.LongerSteps, steps, render.StepParameters{Count: 20, Size: 0.0125}},
		{"shorter", input.ShorterSteps, steps, render.StepParameters{Count: 20, Size: 0.008}},
		{"shorter floor", input.ShorterSteps, render.StepParameters{Count: 20, Size: MinStepSize}, render.StepParameters{Count: 20, Size: MinStepSize}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(cfg, camera.Extrinsics{}, tc.start, nil)
			c.Update(press(tc.button), testK)
			if c.Steps.Count != tc.want.Count || math.Abs(c.Steps.Size-tc.want.Size) > 1e-12 {
				t.Errorf("steps = %+v, want %+v", c.Steps, tc.want)
			}
		})
	}
}

func TestThrowBallLands(t *testing.T) {
	start := camera.Extrinsics{X: 50, Y: 5, Z: 50}
	c := New(DefaultConfig(fps), start, render.DefaultStepParameters(), flat(0))

	if _, ok := c.Ball(); ok {
		t.Fatal("ball exists before a throw")
	}
	c.Update(press(input.Throw), testK)
	if !c.BallFlying() {
		t.Fatal("ball not flying after a throw")
	}
	hold(c, 300)

	p, ok := c.Ball()
	if !ok || c.BallFlying() {
		t.Fatalf("ball ok=%v flying=%v", ok, c.BallFlying())
	}
	if p.Y != 0 {
		t.Errorf("ball rests at y=%v, want 0", p.Y)
	}
	if p.Z >= start.Z-10 || math.Abs(p.X-start.X) > 1e-9 {
		t.Errorf("ball landed at %+v, expected well ahead along -z", p)
	}

	c.Update(press(input.MouseMiddle), testK)
	if _, ok := c.Ball(); ok {
		t.Error("middle click did not clear the ball")
	}
}

func TestMouseThrowFollowsPointer(t *testing.T) {
	start := camera.Extrinsics{X: 50, Y: 5, Z: 50}
	c := New(DefaultConfig(fps), start, render.DefaultStepParameters(), flat(0))

	var snap input.Snapshot
	snap.Down[input.MouseRight] = true
	snap.MouseX, snap.MouseY, snap.MouseValid = testK.Width-1, testK.Height/2, true
	var s input.State
	s.Update(snap)
	c.Update(&s, testK)

	hold(c, 300)
	p, _ := c.Ball()
	if p.X <= start.X {
		t.Errorf("ball landed at x=%v, expected right of %v", p.X, start.X)
	}
}

func TestHeightMapGround(t *testing.T) {
	hm := render.NewImage(2, 1)
	hm.Set(1, 0, render.PackRGB(0, 0, 200))
	g := HeightMapGround(hm)
	if g(0, 0) != 0 || math.Abs(g(1, 0)-10) > 1e-12 {
		t.Errorf("ground = %v, %v", g(0, 0), g(1, 0))
	}
}
