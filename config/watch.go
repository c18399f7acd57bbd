package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the settings whenever the file changes on disk and passes
// the result to fn. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file through a rename are noticed.
func (m *Manager) Watch(ctx context.Context, fn func(Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("watch %s: %w", m.path, err)
	}

	name := filepath.Clean(m.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := m.Reload(); err != nil {
				m.logger.Warn("ignoring settings change", zap.Error(err))
				continue
			}
			m.logger.Info("settings reloaded", zap.String("path", m.path))
			if fn != nil {
				fn(m.Settings())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("settings watcher error", zap.Error(err))
		}
	}
}
