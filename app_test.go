package main

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"SleepTimer/config"
	"SleepTimer/control"
	"SleepTimer/history"
	"SleepTimer/suspend"
	"SleepTimer/timer"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testContent = fstest.MapFS{
	timer.PresetsFile:  {Data: []byte(`["15 min", "30 min", "90 min"]`)},
	"assets/about.txt": {Data: []byte("about")},
}

type testApp struct {
	*AppManager
	store    *history.Store
	suspends atomic.Int32
}

func newTestApp(t *testing.T, tick time.Duration) *testApp {
	t.Helper()
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	settings, err := config.NewManager(filepath.Join(dir, "settings.yaml"), logger)
	require.NoError(t, err)
	store, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)

	ta := &testApp{store: store}
	a, err := NewAppManager(Deps{
		Content:  testContent,
		Settings: settings,
		History:  store,
		Suspender: suspend.Func(func(context.Context) error {
			ta.suspends.Add(1)
			return nil
		}),
		Logger:           logger,
		CountdownOptions: []timer.Option{timer.WithTick(tick)},
	})
	require.NoError(t, err)
	ta.AppManager = a

	t.Cleanup(func() {
		a.Shutdown()
		store.Close()
	})
	return ta
}

func (ta *testApp) send(t *testing.T, typ control.CommandType, selection string) error {
	t.Helper()
	cmd := control.NewCommand(typ, selection)
	ta.EnqueueCommand(cmd)
	select {
	case err := <-cmd.Reply:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("no reply to %v", typ)
		return nil
	}
}

func (ta *testApp) waitRuns(t *testing.T, n int) []history.Run {
	t.Helper()
	var runs []history.Run
	require.Eventually(t, func() bool {
		var err error
		runs, err = ta.store.Recent(10)
		return err == nil && len(runs) == n
	}, 2*time.Second, 10*time.Millisecond)
	return runs
}

func TestAppManager_CompletionSuspendsAndRecords(t *testing.T) {
	ta := newTestApp(t, time.Millisecond)

	require.NoError(t, ta.send(t, control.CmdStart, "3 sec"))

	runs := ta.waitRuns(t, 1)
	assert.Equal(t, "3 sec", runs[0].Selection)
	assert.Equal(t, 3, runs[0].Seconds)
	assert.Equal(t, history.OutcomeCompleted, runs[0].Outcome)
	assert.EqualValues(t, 1, ta.suspends.Load())
	assert.Equal(t, timer.StateCompleted, ta.Snapshot().State)
}

func TestAppManager_CancelRecords(t *testing.T) {
	ta := newTestApp(t, time.Hour)

	require.NoError(t, ta.send(t, control.CmdStart, "30 min"))
	assert.Equal(t, timer.StateRunning, ta.Snapshot().State)

	require.NoError(t, ta.send(t, control.CmdTogglePause, ""))
	assert.Equal(t, timer.StatePaused, ta.Snapshot().State)

	require.NoError(t, ta.send(t, control.CmdCancel, ""))
	assert.Equal(t, timer.StateCanceled, ta.Snapshot().State)

	runs := ta.waitRuns(t, 1)
	assert.Equal(t, history.OutcomeCanceled, runs[0].Outcome)
	assert.Equal(t, 30*60, runs[0].Seconds)
	assert.Zero(t, ta.suspends.Load())
}

func TestAppManager_RestartRecordsSupersededRun(t *testing.T) {
	ta := newTestApp(t, time.Hour)

	require.NoError(t, ta.send(t, control.CmdStart, "15 min"))
	require.NoError(t, ta.send(t, control.CmdStart, "30 min"))
	assert.EqualValues(t, 2, ta.Snapshot().Generation)

	runs := ta.waitRuns(t, 1)
	assert.Equal(t, "15 min", runs[0].Selection)
	assert.Equal(t, history.OutcomeCanceled, runs[0].Outcome)
}

func TestAppManager_RecentRuns(t *testing.T) {
	ta := newTestApp(t, time.Hour)

	runs, err := ta.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, ta.send(t, control.CmdStart, "15 min"))
	require.NoError(t, ta.send(t, control.CmdCancel, ""))
	ta.waitRuns(t, 1)

	runs, err = ta.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "15 min", runs[0].Selection)

	a, err := NewAppManager(Deps{Content: testContent, Settings: ta.settings})
	require.NoError(t, err)
	defer a.Shutdown()
	runs, err = a.RecentRuns(10)
	require.NoError(t, err)
	assert.Nil(t, runs)
}

func TestAppManager_StartMalformed(t *testing.T) {
	ta := newTestApp(t, time.Hour)

	err := ta.send(t, control.CmdStart, "whenever")
	require.ErrorIs(t, err, timer.ErrMalformed)
	assert.Equal(t, timer.StateIdle, ta.Snapshot().State)

	runs, err := ta.store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestAppManager_Options(t *testing.T) {
	ta := newTestApp(t, time.Hour)

	assert.Equal(t, FallbackSelection, ta.DefaultSelection())

	require.NoError(t, ta.SaveTimer(45, "min"))
	assert.Contains(t, ta.Options(), "45 min")

	require.NoError(t, ta.SetDefaultTimer("45 min"))
	assert.Equal(t, "45 min"+config.DefaultMarker, ta.DefaultSelection())

	require.NoError(t, ta.SetDefaultTimer("45 min"+config.DefaultMarker))
	assert.ErrorIs(t, ta.SetDefaultTimer("soon"), config.ErrInvalidTimer)

	require.NoError(t, ta.ClearTimers())
	assert.NotContains(t, ta.Options(), "45 min")
}

func TestRunTracker_OrderIndependent(t *testing.T) {
	dir := t.TempDir()
	store, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	rt := newRunTracker(store, zaptest.NewLogger(t))

	rt.begin(1, history.NewRun("15 min", 900))
	rt.end(1, timer.StateCompleted)

	rt.end(2, timer.StateCanceled)
	rt.begin(2, history.NewRun("30 min", 1800))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "30 min", runs[0].Selection)
	assert.Equal(t, history.OutcomeCanceled, runs[0].Outcome)
	assert.Equal(t, "15 min", runs[1].Selection)
	assert.Equal(t, history.OutcomeCompleted, runs[1].Outcome)

	assert.Empty(t, rt.started)
	assert.Empty(t, rt.ended)
}

func TestNewChime(t *testing.T) {
	sr := beep.SampleRate(8000)
	chime, err := newChime(sr)
	require.NoError(t, err)
	assert.Equal(t, 3*sr.N(250*time.Millisecond), chime.Len())
}
