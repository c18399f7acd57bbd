// Package timer contains the domain logic of the sleep timer: parsing of
// "<duration> <unit>" selections and the Countdown runtime state machine.
//
// Maintenance notes:
//   - A Countdown owns at most one background loop. Every successful Start
//     bumps the generation and hands the new loop its own run record; a loop
//     only mutates state while its run is still the current one.
//   - remaining and state are guarded by mu. The loop is the only writer of
//     remaining while running; Pause, Resume and Cancel only flip state and
//     signal the loop through the run's wake and stop channels.
//   - Callbacks run on the loop goroutine without mu held, so they may call
//     Remaining or Snapshot. A callback that calls Cancel synchronously makes
//     Cancel wait for its bounded timeout, so post UI work elsewhere.
package timer

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimerState defines the possible states of a countdown.
type TimerState int

const (
	StateIdle TimerState = iota
	StateRunning
	StatePaused
	StateCompleted
	StateCanceled
)

func (s TimerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

// Active reports whether a loop owns the countdown in this state.
func (s TimerState) Active() bool {
	return s == StateRunning || s == StatePaused
}

// DefaultTick is the countdown resolution.
const DefaultTick = time.Second

type run struct {
	generation uint64
	stop       chan struct{} // closed on cancel
	wake       chan struct{} // nudged on pause and resume
	done       chan struct{} // closed once the loop has exited
}

func (r *run) nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *run) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// Countdown is a cancelable, pausable countdown that calls onTick after every
// elapsed tick and onComplete once when it reaches zero.
type Countdown struct {
	ctrl sync.Mutex // serializes Start and Cancel

	// mutable state - protect with mu
	mu         sync.RWMutex
	state      TimerState
	total      int
	remaining  int
	generation uint64
	current    *run

	onTick     func()
	onComplete func()
	onEnd      func(generation uint64, final TimerState)

	clock  Clock
	tick   time.Duration
	logger *zap.Logger
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock replaces the clock pacing the countdown.
func WithClock(clock Clock) Option {
	return func(c *Countdown) { c.clock = clock }
}

// WithTick changes the tick period.
func WithTick(d time.Duration) Option {
	return func(c *Countdown) { c.tick = d }
}

// WithEndHook registers fn to be told once how each run ended: completed,
// or canceled by Cancel, by a restart or by a faulting callback. For
// cancels fn runs on the canceling goroutine once the loop has exited.
func WithEndHook(fn func(generation uint64, final TimerState)) Option {
	return func(c *Countdown) { c.onEnd = fn }
}

// WithLogger sets the logger used for lifecycle events and callback faults.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Countdown) { c.logger = logger }
}

// NewCountdown creates an idle countdown. Either callback may be nil.
func NewCountdown(onTick, onComplete func(), opts ...Option) *Countdown {
	c := &Countdown{
		state:      StateIdle,
		onTick:     onTick,
		onComplete: onComplete,
		clock:      SystemClock,
		tick:       DefaultTick,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start cancels any active run, parses selection and, if it yields a
// positive duration, starts a fresh run. Parse failures are returned and
// leave the countdown idle, as does a zero duration.
func (c *Countdown) Start(selection string) error {
	c.ctrl.Lock()
	defer c.ctrl.Unlock()

	c.cancelLocked()

	d, err := ParseDuration(selection)
	if err != nil || d.Seconds <= 0 {
		c.mu.Lock()
		c.state = StateIdle
		c.total = 0
		c.remaining = 0
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.generation++
	r := &run{
		generation: c.generation,
		stop:       make(chan struct{}),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	c.current = r
	c.total = d.Seconds
	c.remaining = d.Seconds
	c.state = StateRunning
	c.mu.Unlock()

	c.logger.Info("countdown started",
		zap.String("selection", selection),
		zap.Int("seconds", d.Seconds),
		zap.Uint64("generation", r.generation))

	go c.loop(r)
	return nil
}

// Cancel stops the active run and waits, at most two ticks, for its loop to
// exit. It reports whether there was a run to cancel.
func (c *Countdown) Cancel() bool {
	c.ctrl.Lock()
	defer c.ctrl.Unlock()
	return c.cancelLocked()
}

func (c *Countdown) cancelLocked() bool {
	c.mu.Lock()
	if !c.state.Active() {
		c.mu.Unlock()
		return false
	}
	r := c.current
	c.state = StateCanceled
	c.remaining = 0
	c.current = nil
	close(r.stop)
	c.mu.Unlock()

	wait := time.NewTimer(2 * c.tick)
	defer wait.Stop()
	select {
	case <-r.done:
	case <-wait.C:
		c.logger.Warn("countdown loop did not acknowledge cancel", zap.Uint64("generation", r.generation))
	}

	c.logger.Info("countdown canceled", zap.Uint64("generation", r.generation))
	c.ended(r, StateCanceled)
	return true
}

// Pause holds a running countdown. It reports whether the state changed.
func (c *Countdown) Pause() bool {
	return c.transition(StateRunning, StatePaused)
}

// Resume continues a paused countdown from the remaining time it held.
func (c *Countdown) Resume() bool {
	return c.transition(StatePaused, StateRunning)
}

// TogglePause pauses a running countdown or resumes a paused one.
func (c *Countdown) TogglePause() {
	if !c.Pause() {
		c.Resume()
	}
}

func (c *Countdown) transition(from, to TimerState) bool {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	r := c.current
	c.mu.Unlock()

	r.nudge()
	c.logger.Debug("countdown "+to.String(), zap.Uint64("generation", r.generation))
	return true
}

// Remaining returns the remaining time split into hours, minutes and seconds.
func (c *Countdown) Remaining() (int, int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return SplitSeconds(c.remaining)
}

// State returns the current state in a thread-safe manner.
func (c *Countdown) State() TimerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot is a consistent view of the countdown for display.
type Snapshot struct {
	State      TimerState
	Total      int
	Remaining  int
	Generation uint64
}

// GetSnapshot returns a consistent snapshot of the countdown.
func (c *Countdown) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:      c.state,
		Total:      c.total,
		Remaining:  c.remaining,
		Generation: c.generation,
	}
}

type step int

const (
	stepSkip step = iota
	stepTick
	stepDone
	stepExit
)

func (c *Countdown) loop(r *run) {
	defer close(r.done)
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("countdown callback failed, canceling",
				zap.Any("panic", p),
				zap.Uint64("generation", r.generation))
			if c.abort(r) {
				c.ended(r, StateCanceled)
			}
		}
	}()

	for {
		if c.paused(r) {
			select {
			case <-r.stop:
				return
			case <-r.wake:
				continue
			}
		}

		t := c.clock.NewTimer(c.tick)
		select {
		case <-r.stop:
			t.Stop()
			return
		case <-r.wake:
			t.Stop()
			continue
		case <-t.C():
		}

		switch c.decrement(r) {
		case stepSkip:
			continue
		case stepExit:
			return
		case stepTick:
			if r.stopped() {
				return
			}
			if c.onTick != nil {
				c.onTick()
			}
		case stepDone:
			c.logger.Info("countdown completed", zap.Uint64("generation", r.generation))
			if c.onTick != nil {
				c.onTick()
			}
			if c.onComplete != nil {
				c.onComplete()
			}
			c.ended(r, StateCompleted)
			return
		}
	}
}

func (c *Countdown) paused(r *run) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current == r && c.state == StatePaused
}

// decrement takes one tick off the run if it is still current and running.
func (c *Countdown) decrement(r *run) step {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != r {
		return stepExit
	}
	switch c.state {
	case StatePaused:
		return stepSkip
	case StateRunning:
	default:
		return stepExit
	}

	c.remaining--
	if c.remaining > 0 {
		return stepTick
	}
	c.remaining = 0
	c.state = StateCompleted
	c.current = nil
	return stepDone
}

// abort turns a run whose callback faulted into a canceled one, unless a
// newer run has taken over.
func (c *Countdown) abort(r *run) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	completed := c.state == StateCompleted && c.generation == r.generation
	if c.current != r && !completed {
		return false
	}
	c.state = StateCanceled
	c.remaining = 0
	c.current = nil
	return true
}

func (c *Countdown) ended(r *run, final TimerState) {
	if c.onEnd != nil {
		c.onEnd(r.generation, final)
	}
}
