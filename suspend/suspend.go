// Package suspend puts the host machine to sleep.
package suspend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// ErrUnsupported is returned on platforms without a known suspend command.
var ErrUnsupported = errors.New("suspend is not supported on this platform")

// Suspender is the "suspend now" capability invoked when a countdown completes.
type Suspender interface {
	Suspend(ctx context.Context) error
}

// Command returns the program and arguments that suspend a machine running goos.
func Command(goos string) ([]string, error) {
	switch goos {
	case "windows":
		return []string{"rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0"}, nil
	case "darwin":
		return []string{"pmset", "sleepnow"}, nil
	case "linux":
		return []string{"systemctl", "suspend"}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, goos)
}

// System suspends the machine using the platform's command.
type System struct {
	Logger *zap.Logger
	GOOS   string // defaults to runtime.GOOS
}

func (s System) Suspend(ctx context.Context) error {
	goos := s.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	args, err := Command(goos)
	if err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("suspending", zap.Strings("command", args))
	}
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, out)
	}
	return nil
}

// DryRun logs instead of suspending.
type DryRun struct {
	Logger *zap.Logger
}

func (d DryRun) Suspend(ctx context.Context) error {
	if d.Logger != nil {
		d.Logger.Info("dry run: not suspending")
	}
	return ctx.Err()
}

// Func adapts a plain function to a Suspender.
type Func func(ctx context.Context) error

func (f Func) Suspend(ctx context.Context) error {
	return f(ctx)
}
