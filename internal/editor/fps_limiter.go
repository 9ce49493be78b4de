package editor

import (
	"time"

	"lumen/internal/config"
)

// idleFPS caps the frame rate while the window is unfocused or minimised.
const idleFPS = 30

// FPSLimiter holds the host loop to the configured frame rate. Deadlines
// are anchored to the previous deadline, so oversleeping one frame does
// not push back every frame after it.
type FPSLimiter struct {
	now   func() time.Time
	sleep func(time.Duration)

	deadline time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{now: time.Now, sleep: time.Sleep}
}

// frameInterval is the shortest allowed frame, or 0 for no limit.
func frameInterval(idle bool) time.Duration {
	fps := config.GetFPSLimit()
	if idle && (fps <= 0 || fps > idleFPS) {
		fps = idleFPS
	}
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// Wait returns once the current frame has used up its interval.
func (f *FPSLimiter) Wait(idle bool) {
	interval := frameInterval(idle)
	now := f.now()
	if interval == 0 {
		f.deadline = time.Time{}
		return
	}

	if f.deadline.IsZero() {
		f.deadline = now.Add(interval)
	} else {
		f.deadline = f.deadline.Add(interval)
	}
	if wait := f.deadline.Sub(now); wait > 0 {
		f.sleep(wait)
		return
	}
	// a frame that overran its whole budget restarts the schedule
	if now.Sub(f.deadline) >= interval {
		f.deadline = now
	}
}
