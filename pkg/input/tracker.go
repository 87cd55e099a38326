package input

import (
	"sync"
	"time"
)

// DefaultHold is how long a terminal key press counts as held when no
// release event follows.
const DefaultHold = 150 * time.Millisecond

// TerminalKeys lists the key strings that trigger each button in the
// terminal frontend.
var TerminalKeys = map[Button][]string{
	Forward:      {"w"},
	Back:         {"s"},
	StrafeLeft:   {"a"},
	StrafeRight:  {"d"},
	Rise:         {"r"},
	Sink:         {"f"},
	YawLeft:      {"left"},
	YawRight:     {"right"},
	PitchUp:      {"up"},
	PitchDown:    {"down"},
	MoreSteps:    {"+", "="},
	FewerSteps:   {"-", "_"},
	LongerSteps:  {"]"},
	ShorterSteps: {"["},
	Throw:        {"space"},
	ToggleMap:    {"m"},
	ToggleHUD:    {"h"},
	Quit:         {"esc", "ctrl+c", "q"},
}

// MatchKey returns the first button, in Button order, whose key strings
// satisfy match.
func MatchKey(match func(keys ...string) bool) (Button, bool) {
	for b := range NumButtons {
		if keys, ok := TerminalKeys[b]; ok && match(keys...) {
			return b, true
		}
	}
	return 0, false
}

// Tracker collects asynchronous terminal events into snapshots. Terminals
// usually report key presses and repeats but not releases, so a key press
// counts as held for the hold duration after its latest event. Buttons
// pressed with Hold stay down until Release.
type Tracker struct {
	mu sync.Mutex

	hold    time.Duration
	now     func() time.Time
	pressed [NumButtons]time.Time
	held    [NumButtons]bool
	// latched keeps a tap visible to at least one snapshot.
	latched [NumButtons]bool

	mouseX, mouseY int
	mouseValid     bool
	quit           bool
}

// NewTracker creates a tracker; a non-positive hold uses DefaultHold.
func NewTracker(hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Tracker{hold: hold, now: time.Now}
}

// Press records a key press or repeat.
func (t *Tracker) Press(b Button) {
	if b < 0 || b >= NumButtons {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed[b] = t.now()
	t.latched[b] = true
}

// Hold marks b down until Release.
func (t *Tracker) Hold(b Button) {
	if b < 0 || b >= NumButtons {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held[b] = true
	t.latched[b] = true
}

// Release ends a press or hold immediately.
func (t *Tracker) Release(b Button) {
	if b < 0 || b >= NumButtons {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held[b] = false
	t.pressed[b] = time.Time{}
}

// MoveMouse records the pointer position in screen pixels.
func (t *Tracker) MoveMouse(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mouseX, t.mouseY = x, y
	t.mouseValid = true
}

// RequestQuit makes every later snapshot report Quit.
func (t *Tracker) RequestQuit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quit = true
}

// Snapshot samples the current state and clears latched taps.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	snap := Snapshot{
		MouseX:     t.mouseX,
		MouseY:     t.mouseY,
		MouseValid: t.mouseValid,
		Quit:       t.quit,
	}
	for i := range snap.Down {
		recent := !t.pressed[i].IsZero() && now.Sub(t.pressed[i]) < t.hold
		snap.Down[i] = t.held[i] || recent || t.latched[i]
		t.latched[i] = false
	}
	return snap
}
