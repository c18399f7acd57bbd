package ui

import (
	"image/color"

	"SleepTimer/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// VariantTheme pins the default theme to one variant regardless of the
// system preference.
type VariantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// NewTheme returns the theme for a config theme name; anything but light is dark.
func NewTheme(name string) fyne.Theme {
	variant := theme.VariantDark
	if name == config.ThemeLight {
		variant = theme.VariantLight
	}
	return &VariantTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// Color returns the color for the pinned variant.
func (t *VariantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// Variant reports the pinned variant.
func (t *VariantTheme) Variant() fyne.ThemeVariant {
	return t.variant
}
