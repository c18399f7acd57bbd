// Package main contains the application wiring and the AppManager which
// coordinates the countdown, settings, run history, audio and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: UI actions are posted as control.Command values to a
//     single command-loop goroutine (see `commandLoop`), which is the only
//     caller of Countdown.Start. The countdown runs its own loop goroutine and
//     calls back into AppManager for ticks and completion; those callbacks must
//     hop to the fyne goroutine (fyne.Do) before touching widgets.
//   - `cmdCh` is buffered. EnqueueCommand drops a command if the channel stays
//     full for a short time rather than blocking the UI.
//   - Completion plays the chime and suspends the machine on the countdown's
//     loop goroutine; the loop exits right after, so nothing waits on it.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"SleepTimer/config"
	"SleepTimer/control"
	"SleepTimer/history"
	"SleepTimer/i18n"
	"SleepTimer/suspend"
	"SleepTimer/timer"
	"SleepTimer/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// FallbackSelection is preselected when no default option is configured.
const FallbackSelection = "90 min"

const (
	chimeSampleRate = beep.SampleRate(44100)
	suspendTimeout  = 30 * time.Second
)

// Deps are the collaborators of an AppManager.
type Deps struct {
	Content   timer.AppContentReader
	Settings  *config.Manager
	History   *history.Store // optional
	Suspender suspend.Suspender
	Logger    *zap.Logger

	// CountdownOptions are passed through to timer.NewCountdown.
	CountdownOptions []timer.Option
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	mainWindow *ui.MainWindow
	countdown  *timer.Countdown
	settings   *config.Manager
	runs       *runTracker
	history    *history.Store
	suspender  suspend.Suspender
	presets    []string
	content    timer.AppContentReader
	logger     *zap.Logger

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc

	chime       *beep.Buffer
	speakerLock sync.Mutex
}

// NewAppManager creates a new application manager and starts its command loop.
func NewAppManager(d Deps) (*AppManager, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Suspender == nil {
		d.Suspender = suspend.DryRun{Logger: d.Logger}
	}

	presets, err := timer.LoadPresets(d.Content)
	if err != nil {
		return nil, err
	}
	d.Logger.Info("loaded timer presets", zap.Int("count", len(presets)))

	a := &AppManager{
		settings:  d.Settings,
		runs:      newRunTracker(d.History, d.Logger),
		history:   d.History,
		suspender: d.Suspender,
		presets:   presets,
		content:   d.Content,
		logger:    d.Logger,
	}

	opts := append([]timer.Option{
		timer.WithLogger(d.Logger),
		timer.WithEndHook(a.runs.end),
	}, d.CountdownOptions...)
	a.countdown = timer.NewCountdown(a.refresh, a.complete, opts...)

	// Use a larger buffer for the command channel to reduce drops under brief bursts.
	a.cmdCh = make(chan control.Command, 64)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()

	return a, nil
}

// SetMainWindow attaches the window refreshed on every tick. Call it before
// the first command is enqueued.
func (a *AppManager) SetMainWindow(w *ui.MainWindow) {
	a.mainWindow = w
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		a.logger.Warn("EnqueueCommand timeout: dropping command", zap.Stringer("type", cmd.Type))
	}
}

func (a *AppManager) commandLoop() {
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			err := a.handle(cmd)
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) error {
	switch cmd.Type {
	case control.CmdStart:
		return a.start(cmd.Selection)
	case control.CmdTogglePause:
		a.countdown.TogglePause()
	case control.CmdCancel:
		a.countdown.Cancel()
	default:
		return fmt.Errorf("unknown command %v", cmd.Type)
	}
	return nil
}

func (a *AppManager) start(selection string) error {
	prev := a.countdown.GetSnapshot().Generation
	if err := a.countdown.Start(selection); err != nil {
		a.logger.Warn("rejected timer selection", zap.String("selection", selection), zap.Error(err))
		return err
	}
	if s := a.countdown.GetSnapshot(); s.Generation != prev {
		a.runs.begin(s.Generation, history.NewRun(selection, s.Total))
	}
	return nil
}

// Snapshot returns the countdown state for display.
func (a *AppManager) Snapshot() timer.Snapshot {
	return a.countdown.GetSnapshot()
}

// refresh is the countdown's tick observer.
func (a *AppManager) refresh() {
	if a.mainWindow != nil {
		fyne.Do(a.mainWindow.Refresh)
	}
}

// complete is the countdown's completion callback.
func (a *AppManager) complete() {
	a.logger.Info("timer finished, going to sleep")
	a.PlayChime()

	ctx, cancel := context.WithTimeout(context.Background(), suspendTimeout)
	defer cancel()
	if err := a.suspender.Suspend(ctx); err != nil {
		a.logger.Error("an error occurred while putting the system to sleep", zap.Error(err))
	}

	a.refresh()
}

// Options lists the selectable durations.
func (a *AppManager) Options() []string {
	s := a.settings.Settings()
	return config.Options(a.presets, s.Timers, s.DefaultOption)
}

// DefaultSelection is the option preselected in the dropdown.
func (a *AppManager) DefaultSelection() string {
	if d := a.settings.DefaultOption(); d != "" {
		for _, o := range a.Options() {
			if o == d+config.DefaultMarker {
				return o
			}
		}
	}
	return FallbackSelection
}

// SaveTimer stores a custom duration.
func (a *AppManager) SaveTimer(duration int, unit string) error {
	return a.settings.AddTimer(duration, unit)
}

// SetDefaultTimer makes an option, as displayed in the dropdown, the default.
func (a *AppManager) SetDefaultTimer(selection string) error {
	fields := strings.Fields(strings.TrimSuffix(selection, config.DefaultMarker))
	if len(fields) != 2 {
		return fmt.Errorf("%w: %q", config.ErrInvalidTimer, selection)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %q", config.ErrInvalidTimer, selection)
	}
	return a.settings.SetDefaultOption(n, fields[1])
}

// ClearTimers removes all custom durations.
func (a *AppManager) ClearTimers() error {
	return a.settings.ClearTimers()
}

// ToggleTheme flips the persisted theme and returns the new one.
func (a *AppManager) ToggleTheme() (string, error) {
	return a.settings.ToggleTheme()
}

// RecentRuns returns up to n finished runs, newest first. Without a history
// store it returns none.
func (a *AppManager) RecentRuns(n int) ([]history.Run, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.Recent(n)
}

// ShowAbout shows the about text.
func (a *AppManager) ShowAbout() {
	if a.mainWindow == nil {
		return
	}
	parent := a.mainWindow.Window()

	bytes, err := a.content.ReadFile("assets/about.txt")
	if err != nil {
		dialog.ShowError(err, parent)
		return
	}

	text := widget.NewLabel(string(bytes))
	text.Wrapping = fyne.TextWrapWord

	scrollableContent := container.NewVScroll(text)
	scrollableContent.SetMinSize(fyne.NewSize(360, 200))

	dialog.ShowCustom(i18n.T("About Sleep Timer"), i18n.T("Close"), scrollableContent, parent)
}

func newChime(sr beep.SampleRate) (*beep.Buffer, error) {
	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	for _, freq := range []float64{880, 660, 440} {
		tone, err := generators.SineTone(sr, freq)
		if err != nil {
			return nil, err
		}
		buffer.Append(&effects.Volume{
			Streamer: beep.Take(sr.N(250*time.Millisecond), tone),
			Base:     2,
			Volume:   -2,
		})
	}
	return buffer, nil
}

// LoadAudio prepares the completion chime. Audio stays disabled when the
// speaker cannot be initialized.
func (a *AppManager) LoadAudio() {
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10)); err != nil {
		a.logger.Warn("audio disabled: failed to initialize speaker", zap.Error(err))
		return
	}

	chime, err := newChime(chimeSampleRate)
	if err != nil {
		a.logger.Warn("audio disabled: failed to build chime", zap.Error(err))
		return
	}
	a.chime = chime
}

// PlayChime plays the completion chime and waits for it to finish.
func (a *AppManager) PlayChime() {
	if a.chime == nil {
		return
	}

	done := make(chan struct{})
	a.speakerLock.Lock()
	speaker.Play(beep.Seq(a.chime.Streamer(0, a.chime.Len()), beep.Callback(func() { close(done) })))
	a.speakerLock.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		a.logger.Warn("chime did not finish playing")
	}
}

// Shutdown cancels any running countdown and stops the command loop.
func (a *AppManager) Shutdown() {
	a.countdown.Cancel()
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
}

var errNoWindow = errors.New("no main window")

// ApplySettings pushes externally edited settings into the UI.
func (a *AppManager) ApplySettings(s config.Settings) error {
	if a.mainWindow == nil {
		return errNoWindow
	}
	fyne.Do(func() {
		a.mainWindow.RefreshOptions()
		a.mainWindow.ApplyTheme(s.Theme)
	})
	return nil
}
