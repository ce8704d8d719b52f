package pagination

import "time"

// CancelFunc stops a scheduled callback if it has not fired yet.
type CancelFunc func()

// Scheduler abstracts the timing primitive the ReflowEngine uses to
// debounce and to defer work to paint cycles or idle time. A production
// host supplies RealScheduler; tests supply a fake Scheduler so reflow
// timing is deterministic and doesn't depend on wall-clock sleeps.
type Scheduler interface {
	// AfterMs schedules fn to run after ms milliseconds.
	AfterMs(ms int, fn func()) CancelFunc
	// NextFrame schedules fn for the next paint cycle, or falls back to a
	// zero-delay timer when no paint-cycle hook is available.
	NextFrame(fn func()) CancelFunc
	// WhenIdle schedules fn for idle time within timeoutMs, or falls back
	// to a zero-delay timer.
	WhenIdle(timeoutMs int, fn func()) CancelFunc
}

// RealScheduler is the production Scheduler, built on time.AfterFunc. It
// has no access to a browser's requestAnimationFrame/requestIdleCallback
// equivalents in a headless Go process, so NextFrame and WhenIdle both
// degrade to timers, matching spec §4.5's documented fallback.
type RealScheduler struct{}

func NewRealScheduler() *RealScheduler {
	return &RealScheduler{}
}

func (s *RealScheduler) AfterMs(ms int, fn func()) CancelFunc {
	if ms < 0 {
		ms = 0
	}
	timer := time.AfterFunc(time.Duration(ms)*time.Millisecond, fn)
	return func() { timer.Stop() }
}

func (s *RealScheduler) NextFrame(fn func()) CancelFunc {
	return s.AfterMs(0, fn)
}

func (s *RealScheduler) WhenIdle(timeoutMs int, fn func()) CancelFunc {
	return s.AfterMs(0, fn)
}
