package main

import (
	"sync"

	"SleepTimer/history"
	"SleepTimer/timer"

	"go.uber.org/zap"
)

// runTracker pairs the start of a countdown generation with its end and
// writes the finished run to the history store. Either side may arrive first.
type runTracker struct {
	mu      sync.Mutex
	started map[uint64]history.Run
	ended   map[uint64]history.Outcome

	store  *history.Store
	logger *zap.Logger
}

func newRunTracker(store *history.Store, logger *zap.Logger) *runTracker {
	return &runTracker{
		started: make(map[uint64]history.Run),
		ended:   make(map[uint64]history.Outcome),
		store:   store,
		logger:  logger,
	}
}

func (t *runTracker) begin(generation uint64, run history.Run) {
	t.mu.Lock()
	outcome, ok := t.ended[generation]
	if !ok {
		t.started[generation] = run
		t.mu.Unlock()
		return
	}
	delete(t.ended, generation)
	t.mu.Unlock()

	t.save(run.Finish(outcome))
}

// end is the countdown's end hook.
func (t *runTracker) end(generation uint64, final timer.TimerState) {
	outcome := history.OutcomeCanceled
	if final == timer.StateCompleted {
		outcome = history.OutcomeCompleted
	}

	t.mu.Lock()
	run, ok := t.started[generation]
	if !ok {
		t.ended[generation] = outcome
		t.mu.Unlock()
		return
	}
	delete(t.started, generation)
	t.mu.Unlock()

	t.save(run.Finish(outcome))
}

func (t *runTracker) save(run history.Run) {
	if t.store == nil {
		return
	}
	if err := t.store.Record(run); err != nil {
		t.logger.Error("failed to record run", zap.String("selection", run.Selection), zap.Error(err))
	}
}
