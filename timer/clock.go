package timer

import "time"

// Timer is the part of *time.Timer the countdown loop needs.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock creates the timers that pace the countdown. Tests replace it to
// drive ticks by hand.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// SystemClock is the default Clock implementation using the standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) C() <-chan time.Time {
	return s.t.C
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}
