package app

import "time"

// fpsCounter measures frames per second over one-second windows.
type fpsCounter struct {
	now    func() time.Time
	rate   float64
	frames int
	since  time.Time
}

func newFPSCounter(now func() time.Time) fpsCounter {
	return fpsCounter{now: now, since: now()}
}

// tick counts a frame and reports whether a new rate was computed.
func (f *fpsCounter) tick() bool {
	f.frames++
	elapsed := f.now().Sub(f.since)
	if elapsed < time.Second {
		return false
	}
	f.rate = float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.since = f.now()
	return true
}
