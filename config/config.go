// Package config persists the user's settings: custom timer presets, the
// preferred default selection and the theme.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"SleepTimer/timer"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Version is shown in the File menu.
const Version = "1.0.1"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultMarker decorates the default selection in the options list.
const DefaultMarker = " ★"

var (
	ErrInvalidTheme = errors.New("theme must be either \"light\" or \"dark\"")
	ErrInvalidTimer = errors.New("invalid timer")
)

// Units accepted for custom presets.
var Units = []string{"sec", "min", "hrs"}

type Settings struct {
	Timers        []string `yaml:"timers"`
	DefaultOption string   `yaml:"default_option,omitempty"`
	Theme         string   `yaml:"theme"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Timers: []string{},
		Theme:  ThemeDark,
	}
}

func (s *Settings) clone() Settings {
	c := *s
	c.Timers = slices.Clone(s.Timers)
	return c
}

type Manager struct {
	mu       sync.RWMutex
	settings *Settings
	path     string
	logger   *zap.Logger
}

// DefaultPath returns SLEEPTIMER_CONFIG if set, or settings.yaml in the
// user's config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("SLEEPTIMER_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sleeptimer", "settings.yaml"), nil
}

// NewManager loads the settings at path, writing defaults when the file
// does not exist yet. An unreadable file falls back to defaults.
func NewManager(path string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	m := &Manager{path: path, logger: logger}

	settings, err := m.load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		m.settings = DefaultSettings()
		if err := m.save(); err != nil {
			return nil, err
		}
	case err != nil:
		logger.Error("error loading config, using defaults", zap.String("path", path), zap.Error(err))
		m.settings = DefaultSettings()
	default:
		m.settings = settings
	}

	if m.settings.Theme != ThemeDark && m.settings.Theme != ThemeLight {
		logger.Warn("invalid theme, resetting to dark", zap.String("theme", m.settings.Theme))
		m.settings.Theme = ThemeDark
		if err := m.save(); err != nil {
			logger.Error("error saving config", zap.Error(err))
		}
	}

	return m, nil
}

func (m *Manager) load() (*Settings, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", m.path, err)
	}
	if settings.Timers == nil {
		settings.Timers = []string{}
	}
	return settings, nil
}

// save writes the current settings; callers hold mu or own m exclusively.
func (m *Manager) save() error {
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}

func (m *Manager) update(fn func(s *Settings) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.settings.clone()
	if err := fn(m.settings); err != nil {
		return err
	}
	if err := m.save(); err != nil {
		*m.settings = prev
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Settings returns a copy of the current settings.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.clone()
}

func (m *Manager) Timers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.settings.Timers)
}

func (m *Manager) DefaultOption() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.DefaultOption
}

func (m *Manager) Theme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Theme
}

// TimerTitle formats a preset the way it is shown and stored.
func TimerTitle(duration int, unit string) (string, error) {
	if duration <= 0 || !slices.Contains(Units, unit) {
		return "", fmt.Errorf("%w: %d %s", ErrInvalidTimer, duration, unit)
	}
	title := strconv.Itoa(duration) + " " + unit
	if _, err := timer.ParseDuration(title); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTimer, err)
	}
	return title, nil
}

// AddTimer saves a custom preset. Presets already saved are left alone.
func (m *Manager) AddTimer(duration int, unit string) error {
	title, err := TimerTitle(duration, unit)
	if err != nil {
		return err
	}
	return m.update(func(s *Settings) error {
		if !slices.Contains(s.Timers, title) {
			s.Timers = append(s.Timers, title)
		}
		return nil
	})
}

// ClearTimers removes every custom preset.
func (m *Manager) ClearTimers() error {
	return m.update(func(s *Settings) error {
		s.Timers = []string{}
		return nil
	})
}

// SetDefaultOption makes the given duration the preselected option.
func (m *Manager) SetDefaultOption(duration int, unit string) error {
	title, err := TimerTitle(duration, unit)
	if err != nil {
		return err
	}
	return m.update(func(s *Settings) error {
		s.DefaultOption = title
		return nil
	})
}

func (m *Manager) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return ErrInvalidTheme
	}
	return m.update(func(s *Settings) error {
		s.Theme = theme
		return nil
	})
}

// ToggleTheme switches between dark and light and returns the new theme.
func (m *Manager) ToggleTheme() (string, error) {
	var next string
	err := m.update(func(s *Settings) error {
		next = ThemeDark
		if s.Theme == ThemeDark {
			next = ThemeLight
		}
		s.Theme = next
		return nil
	})
	return next, err
}

// Reload re-reads the settings file. On failure the current settings are kept.
func (m *Manager) Reload() error {
	settings, err := m.load()
	if err != nil {
		return err
	}
	if settings.Theme != ThemeDark && settings.Theme != ThemeLight {
		settings.Theme = ThemeDark
	}

	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()
	return nil
}

// Options lists the built-in selections followed by custom ones not already
// present. The default selection, if listed, carries DefaultMarker.
func Options(defaults, custom []string, defaultOption string) []string {
	options := slices.Clone(defaults)
	for _, c := range custom {
		if !slices.Contains(options, c) {
			options = append(options, c)
		}
	}
	if i := slices.Index(options, defaultOption); defaultOption != "" && i >= 0 {
		options[i] += DefaultMarker
	}
	return options
}
