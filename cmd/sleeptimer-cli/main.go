// Command sleeptimer-cli runs a sleep timer in the terminal. Type p and
// Enter to pause or resume, c or Ctrl+C to cancel.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"SleepTimer/suspend"
	"SleepTimer/timer"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	duration = flag.String("d", "30 min", `duration as "<n> <sec|min|hrs>"`)
	dryRun   = flag.Bool("dry-run", os.Getenv("SLEEPTIMER_DRY_RUN") == "1", "log instead of suspending the machine")
	verbose  = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()

	cfg := zap.NewDevelopmentConfig()
	if !*verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	var suspender suspend.Suspender = suspend.System{Logger: logger}
	if *dryRun {
		suspender = suspend.DryRun{Logger: logger}
	}

	os.Exit(run(*duration, os.Stdin, os.Stdout, suspender, logger))
}

func run(selection string, in io.Reader, out io.Writer, suspender suspend.Suspender, logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ended := make(chan timer.TimerState, 1)
	var c *timer.Countdown
	c = timer.NewCountdown(
		func() { fmt.Fprint(out, status(c.GetSnapshot())) },
		func() {
			fmt.Fprintln(out)
			color.New(color.FgGreen).Fprintln(out, "Good night.")
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := suspender.Suspend(sctx); err != nil {
				color.New(color.FgRed).Fprintf(out, "failed to suspend: %v\n", err)
			}
		},
		timer.WithLogger(logger),
		timer.WithEndHook(func(_ uint64, final timer.TimerState) { ended <- final }),
	)

	if err := c.Start(selection); err != nil {
		color.New(color.FgRed).Fprintln(out, err)
		return 2
	}
	if !c.State().Active() {
		color.New(color.FgYellow).Fprintln(out, "nothing to count down")
		return 0
	}
	fmt.Fprint(out, status(c.GetSnapshot()))

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if !handleInput(c, scanner.Text()) {
				return
			}
			fmt.Fprint(out, status(c.GetSnapshot()))
		}
	}()

	var final timer.TimerState
	select {
	case <-ctx.Done():
		c.Cancel()
		final = <-ended
	case final = <-ended:
	}

	if final == timer.StateCanceled {
		fmt.Fprintln(out)
		color.New(color.FgYellow).Fprintln(out, "Timer canceled.")
		return 1
	}
	return 0
}

// handleInput applies one line typed by the user. It returns false once the
// countdown has been canceled.
func handleInput(c *timer.Countdown, line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "p", "pause":
		c.TogglePause()
	case "c", "cancel", "q":
		c.Cancel()
		return false
	}
	return true
}

func status(s timer.Snapshot) string {
	text := timer.FormatTime(s.Remaining)
	switch s.State {
	case timer.StatePaused:
		return "\r ⏸ " + color.YellowString(text) + " (paused) "
	case timer.StateRunning:
		return "\r ⏾ " + color.CyanString(text) + "          "
	}
	return "\r   " + text + "          "
}
