package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mfateev/chatbox/internal/theme"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	// "You" / "Assistant" labels above each bubble
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	// Bubble bodies
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	ErrorMessage     lipgloss.Style
	// Local notes (/help output, theme changes, store errors)
	SystemMessage lipgloss.Style
	// Separator line between viewport and input
	Separator lipgloss.Style
	// Status bar
	StatusBar lipgloss.Style
	// Spinner message
	SpinnerMessage lipgloss.Style
}

// LightStyles returns the colored style set for the light theme.
func LightStyles() Styles {
	return Styles{
		UserLabel:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")), // blue
		AssistantLabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")), // green
		UserMessage:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		AssistantMessage: lipgloss.NewStyle(),
		ErrorMessage:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		SystemMessage:    lipgloss.NewStyle().Faint(true).Italic(true),
		Separator:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		StatusBar:        lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Background(lipgloss.Color("254")),
		SpinnerMessage:   lipgloss.NewStyle().Faint(true),
	}
}

// DarkStyles returns the colored style set for the dark theme.
func DarkStyles() Styles {
	return Styles{
		UserLabel:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")), // bright blue
		AssistantLabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")), // bright green
		UserMessage:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		AssistantMessage: lipgloss.NewStyle(),
		ErrorMessage:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")), // bright red
		SystemMessage:    lipgloss.NewStyle().Faint(true).Italic(true),
		Separator:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		StatusBar:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		SpinnerMessage:   lipgloss.NewStyle().Faint(true),
	}
}

// NoColorStyles returns styles with no colors (plain text).
func NoColorStyles() Styles {
	return Styles{
		UserLabel:        lipgloss.NewStyle(),
		AssistantLabel:   lipgloss.NewStyle(),
		UserMessage:      lipgloss.NewStyle(),
		AssistantMessage: lipgloss.NewStyle(),
		ErrorMessage:     lipgloss.NewStyle(),
		SystemMessage:    lipgloss.NewStyle(),
		Separator:        lipgloss.NewStyle(),
		StatusBar:        lipgloss.NewStyle(),
		SpinnerMessage:   lipgloss.NewStyle(),
	}
}

// StylesFor picks the style set for t.
func StylesFor(t theme.Theme, noColor bool) Styles {
	switch {
	case noColor:
		return NoColorStyles()
	case t == theme.Dark:
		return DarkStyles()
	default:
		return LightStyles()
	}
}
