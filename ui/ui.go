package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SleepTimer/config"
	"SleepTimer/control"
	"SleepTimer/history"
	"SleepTimer/i18n"
	"SleepTimer/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	ProjectURL   = "https://github.com/denemir/"
	BugReportURL = "https://github.com/denemir/Simple-Sleep-Timer/issues/new"

	// recentRuns is how many runs the Recent Runs dialog lists.
	recentRuns = 10
)

// replyTimeout bounds how long a button waits on the command loop. A start
// may first cancel a run, which waits up to two ticks.
var replyTimeout = 3 * time.Second

// ErrNoReply is returned when the command loop does not answer in time,
// usually because the command was dropped.
var ErrNoReply = errors.New("the timer did not respond")

// App is what the window needs from the application.
type App interface {
	Options() []string
	DefaultSelection() string
	EnqueueCommand(cmd control.Command)
	Snapshot() timer.Snapshot
	SaveTimer(duration int, unit string) error
	SetDefaultTimer(selection string) error
	ClearTimers() error
	ToggleTheme() (string, error)
	ShowAbout()
	RecentRuns(n int) ([]history.Run, error)
}

// MainWindow holds the widgets of the timer window.
type MainWindow struct {
	app    App
	fyne   fyne.App
	window fyne.Window

	selector    *widget.Select
	display     *widget.Label
	addButton   *widget.Button
	startButton *widget.Button
	stopButton  *widget.Button
	pauseButton *widget.Button
}

// CreateMainWindow builds the window and wires the controls to a.
func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	w := &MainWindow{app: a, fyne: fyneApp}
	w.window = fyneApp.NewWindow(i18n.T("Sleep Timer"))

	w.selector = widget.NewSelect(a.Options(), nil)
	w.selector.SetSelected(a.DefaultSelection())

	w.display = widget.NewLabelWithStyle(timer.FormatTime(0), fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	w.display.Hide()

	w.addButton = widget.NewButton("+", w.showAddTimer)
	w.startButton = widget.NewButton(i18n.T("Start Timer"), w.Start)
	w.stopButton = widget.NewButton(i18n.T("Stop Timer"), w.Cancel)
	w.pauseButton = widget.NewButton(i18n.T("Pause Timer"), w.TogglePause)

	top := container.NewBorder(nil, nil, nil, w.addButton, container.NewStack(w.selector, w.display))
	buttons := container.NewHBox(w.startButton, w.stopButton, w.pauseButton, layout.NewSpacer())

	w.window.SetContent(container.NewVBox(
		widget.NewLabel(i18n.T("Timers:")),
		top,
		buttons,
	))
	w.window.SetMainMenu(w.buildMenu())
	w.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if (ev.Name == fyne.KeyReturn || ev.Name == fyne.KeyEnter) && !w.startButton.Disabled() {
			w.Start()
		}
	})
	w.window.Resize(fyne.NewSize(320, 120))
	w.window.SetFixedSize(true)
	w.window.CenterOnScreen()

	w.Refresh()
	return w
}

func (w *MainWindow) buildMenu() *fyne.MainMenu {
	version := fyne.NewMenuItem(i18n.T("Version: ")+config.Version, nil)
	version.Disabled = true

	file := fyne.NewMenu(i18n.T("File"),
		fyne.NewMenuItem(i18n.T("Set as Default"), w.setDefault),
		fyne.NewMenuItem(i18n.T("Clear Custom Timers"), w.clearTimers),
		fyne.NewMenuItem(i18n.T("Toggle Theme"), w.toggleTheme),
		version,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("Check me out!"), func() { w.openURL(ProjectURL) }),
	)
	help := fyne.NewMenu(i18n.T("Help"),
		fyne.NewMenuItem(i18n.T("About Sleep Timer"), w.app.ShowAbout),
		fyne.NewMenuItem(i18n.T("Recent Runs"), w.showRecentRuns),
		fyne.NewMenuItem(i18n.T("Report a Bug"), func() { w.openURL(BugReportURL) }),
	)
	return fyne.NewMainMenu(file, help)
}

// Window returns the underlying fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}

// send posts cmd to the command loop and waits for its reply.
func (w *MainWindow) send(cmd control.Command) error {
	w.app.EnqueueCommand(cmd)
	select {
	case err := <-cmd.Reply:
		return err
	case <-time.After(replyTimeout):
		return ErrNoReply
	}
}

// errorDialog picks the title and message shown for a failed command.
func errorDialog(err error) (title, message string) {
	switch {
	case errors.Is(err, timer.ErrMalformed):
		return i18n.T("Invalid Input"), i18n.T("Please enter a valid time in this format: { Duration } { Units }")
	case errors.Is(err, ErrNoReply):
		return i18n.T("Error"), i18n.T("The timer did not respond. Please try again.")
	}
	return i18n.T("Error"), err.Error()
}

func (w *MainWindow) showError(err error) {
	if err == nil {
		return
	}
	title, message := errorDialog(err)
	dialog.NewInformation(title, message, w.window).Show()
}

// Start starts the selected timer.
func (w *MainWindow) Start() {
	w.showError(w.send(control.NewCommand(control.CmdStart, w.selector.Selected)))
	w.Refresh()
}

// Cancel stops the running timer.
func (w *MainWindow) Cancel() {
	w.showError(w.send(control.NewCommand(control.CmdCancel, "")))
	w.Refresh()
}

// TogglePause pauses or resumes the running timer.
func (w *MainWindow) TogglePause() {
	w.showError(w.send(control.NewCommand(control.CmdTogglePause, "")))
	w.Refresh()
}

// Refresh brings the display and buttons in line with the countdown. Call
// it on the fyne goroutine.
func (w *MainWindow) Refresh() {
	s := w.app.Snapshot()
	running := s.State.Active()

	if running {
		w.selector.Hide()
		w.display.SetText(timer.FormatTime(s.Remaining))
		w.display.Show()
		w.startButton.Disable()
		w.stopButton.Enable()
		w.pauseButton.Enable()
	} else {
		w.display.Hide()
		w.selector.Show()
		w.startButton.Enable()
		w.stopButton.Disable()
		w.pauseButton.Disable()
	}

	if s.State == timer.StatePaused {
		w.pauseButton.SetText(i18n.T("Unpause Timer"))
	} else {
		w.pauseButton.SetText(i18n.T("Pause Timer"))
	}
}

// RefreshOptions reloads the selectable durations, keeping the selection
// when it is still listed.
func (w *MainWindow) RefreshOptions() {
	selected := w.selector.Selected
	options := w.app.Options()
	w.selector.SetOptions(options)

	for _, o := range options {
		if o == selected {
			w.selector.SetSelected(o)
			return
		}
	}
	w.selector.SetSelected(w.app.DefaultSelection())
}

// ApplyTheme switches the window to the named theme.
func (w *MainWindow) ApplyTheme(name string) {
	w.fyne.Settings().SetTheme(NewTheme(name))
}

func (w *MainWindow) showAddTimer() {
	duration := widget.NewEntry()
	duration.Validator = func(s string) error {
		if n, err := strconv.Atoi(s); err != nil || n <= 0 {
			return errors.New(i18n.T("Please enter a valid positive number for duration."))
		}
		return nil
	}
	unit := widget.NewSelect(config.Units, nil)
	unit.SetSelected("min")

	items := []*widget.FormItem{
		widget.NewFormItem(i18n.T("Duration:"), duration),
		widget.NewFormItem(i18n.T("Units:"), unit),
	}
	dialog.ShowForm(i18n.T("Add Timer"), i18n.T("Save"), i18n.T("Cancel"), items, func(ok bool) {
		if !ok {
			return
		}
		n, _ := strconv.Atoi(duration.Text)
		if err := w.AddTimer(n, unit.Selected); err != nil {
			dialog.ShowError(errors.New(i18n.T("Please enter a valid positive number for duration.")), w.window)
		}
	}, w.window)
}

// AddTimer saves a custom duration and lists it.
func (w *MainWindow) AddTimer(duration int, unit string) error {
	if err := w.app.SaveTimer(duration, unit); err != nil {
		return err
	}
	w.RefreshOptions()
	return nil
}

func (w *MainWindow) setDefault() {
	if err := w.app.SetDefaultTimer(w.selector.Selected); err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.RefreshOptions()
}

func (w *MainWindow) clearTimers() {
	if err := w.app.ClearTimers(); err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.RefreshOptions()
}

func (w *MainWindow) toggleTheme() {
	name, err := w.app.ToggleTheme()
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.ApplyTheme(name)
}

// formatRun renders one history entry as a dialog line.
func formatRun(r history.Run) string {
	return fmt.Sprintf("%s  %s  %s",
		r.StartedAt.Local().Format("2006-01-02 15:04"),
		strings.TrimSuffix(r.Selection, config.DefaultMarker),
		i18n.T(string(r.Outcome)))
}

func (w *MainWindow) showRecentRuns() {
	runs, err := w.app.RecentRuns(recentRuns)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}

	text := i18n.T("No runs yet.")
	if len(runs) > 0 {
		lines := make([]string, len(runs))
		for i, r := range runs {
			lines[i] = formatRun(r)
		}
		text = strings.Join(lines, "\n")
	}

	label := widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	dialog.ShowCustom(i18n.T("Recent Runs"), i18n.T("Close"), label, w.window)
}

func (w *MainWindow) openURL(raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		return
	}
	if err := w.fyne.OpenURL(u); err != nil {
		dialog.ShowError(err, w.window)
	}
}
