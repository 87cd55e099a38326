// Package input turns raw key and mouse activity into per-frame button
// states. Every button runs the same four-state machine:
//
//	Up       -> Clicked  when down, else Up
//	Clicked  -> Down
//	Down     -> Down     when down, else Released
//	Released -> Up
//
// so a press is seen as Clicked for exactly one frame and a release as
// Released for exactly one frame.
package input

// ButtonState is the per-frame state of one button.
type ButtonState int

const (
	Up ButtonState = iota
	Clicked
	Down
	Released
)

// Next advances the state given whether the button is physically down this
// frame. A Clicked button always becomes Down and a Released one always
// becomes Up, whatever down says.
func (s ButtonState) Next(down bool) ButtonState {
	switch s {
	case Up:
		if down {
			return Clicked
		}
		return Up
	case Clicked:
		return Down
	case Down:
		if down {
			return Down
		}
		return Released
	default:
		return Up
	}
}

// Pressed reports whether the button is held: Clicked or Down.
func (s ButtonState) Pressed() bool {
	return s == Clicked || s == Down
}

func (s ButtonState) String() string {
	switch s {
	case Up:
		return "up"
	case Clicked:
		return "clicked"
	case Down:
		return "down"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Button names an action the frontends can report.
type Button int

const (
	Forward Button = iota
	Back
	StrafeLeft
	StrafeRight
	Rise
	Sink
	YawLeft
	YawRight
	PitchUp
	PitchDown
	MoreSteps
	FewerSteps
	LongerSteps
	ShorterSteps
	Throw
	ToggleMap
	ToggleHUD
	Quit
	MouseLeft
	MouseMiddle
	MouseRight

	NumButtons
)

var buttonNames = [NumButtons]string{
	"forward", "back", "strafe-left", "strafe-right", "rise", "sink",
	"yaw-left", "yaw-right", "pitch-up", "pitch-down",
	"more-steps", "fewer-steps", "longer-steps", "shorter-steps",
	"throw", "toggle-map", "toggle-hud", "quit",
	"mouse-left", "mouse-middle", "mouse-right",
}

func (b Button) String() string {
	if b < 0 || b >= NumButtons {
		return "unknown"
	}
	return buttonNames[b]
}

// Snapshot is the raw device state sampled once per frame.
type Snapshot struct {
	Down   [NumButtons]bool
	MouseX int // Absolute pointer position in screen pixels
	MouseY int
	// MouseValid is false until the pointer has been seen.
	MouseValid bool
	Quit       bool // Window closed or interrupt received
}

// State is the debounced input for one frame.
type State struct {
	buttons [NumButtons]ButtonState

	MouseX, MouseY int // Absolute pointer position
	DX, DY         int // Pointer motion since the previous frame
	Quit           bool

	mouseSeen bool
}

// Update advances every button machine and the mouse from a new snapshot.
func (s *State) Update(snap Snapshot) {
	for i := range s.buttons {
		s.buttons[i] = s.buttons[i].Next(snap.Down[i])
	}

	s.DX, s.DY = 0, 0
	if snap.MouseValid {
		if s.mouseSeen {
			s.DX = snap.MouseX - s.MouseX
			s.DY = snap.MouseY - s.MouseY
		}
		s.MouseX, s.MouseY = snap.MouseX, snap.MouseY
		s.mouseSeen = true
	}

	s.Quit = snap.Quit || s.buttons[Quit] == Clicked
}

// Button returns the state of b this frame.
func (s *State) Button(b Button) ButtonState {
	if b < 0 || b >= NumButtons {
		return Up
	}
	return s.buttons[b]
}

// Pressed reports whether b is held this frame.
func (s *State) Pressed(b Button) bool {
	return s.Button(b).Pressed()
}

// Clicked reports whether b went down this frame.
func (s *State) Clicked(b Button) bool {
	return s.Button(b) == Clicked
}

// Axis returns +1 when pos is held, -1 when neg is held, and 0 for both or
// neither.
func (s *State) Axis(neg, pos Button) float64 {
	var v float64
	if s.Pressed(pos) {
		v++
	}
	if s.Pressed(neg) {
		v--
	}
	return v
}
