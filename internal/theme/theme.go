// Package theme manages the persisted light/dark preference.
package theme

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/prefs"
)

// Theme is the color scheme of the presentation layer.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Default is in effect until a stored value says otherwise.
	Default = Light

	// StorageKey is the fixed preference key holding "light" or "dark".
	StorageKey = "theme"
)

// Parse returns the theme named by s. Only the exact strings "light" and
// "dark" are recognized.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Applier is the presentation layer that renders in a theme.
type Applier interface {
	ApplyTheme(t Theme)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(t Theme)

// ApplyTheme calls f(t).
func (f ApplierFunc) ApplyTheme(t Theme) { f(t) }

// Manager tracks the current theme, applies changes and persists them.
type Manager struct {
	store   prefs.Store
	applier Applier
	current Theme
	logger  zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for storage problems.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager starting at Default. Nothing is read or
// applied until Load is called.
func NewManager(store prefs.Store, applier Applier, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		applier: applier,
		current: Default,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the theme in effect.
func (m *Manager) Current() Theme {
	return m.current
}

// Load reads the stored preference and applies it. A missing or unrecognized
// value leaves the current theme untouched. A read error is returned and also
// leaves the current theme untouched.
func (m *Manager) Load() (Theme, error) {
	raw, ok, err := m.store.Get(StorageKey)
	if err != nil {
		return m.current, fmt.Errorf("failed to read theme preference: %w", err)
	}
	if !ok {
		return m.current, nil
	}
	t, valid := Parse(raw)
	if !valid {
		m.logger.Debug().Str("value", raw).Msg("ignoring unknown stored theme")
		return m.current, nil
	}
	m.current = t
	m.apply()
	return t, nil
}

// Toggle flips the theme, applies it and persists it. When persisting fails
// the new theme stays applied and the error is returned.
func (m *Manager) Toggle() (Theme, error) {
	m.current = m.current.Toggle()
	m.apply()
	if err := m.store.Set(StorageKey, string(m.current)); err != nil {
		m.logger.Warn().Err(err).Str("theme", string(m.current)).Msg("failed to persist theme")
		return m.current, fmt.Errorf("failed to save theme preference: %w", err)
	}
	return m.current, nil
}

func (m *Manager) apply() {
	if m.applier != nil {
		m.applier.ApplyTheme(m.current)
	}
}
