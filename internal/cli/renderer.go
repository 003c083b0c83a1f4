// Package cli implements the interactive terminal chat client.
package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/session"
	"github.com/mfateev/chatbox/internal/theme"
)

// ItemRenderer renders chat bubbles as styled strings for the viewport.
// It is also the theme.Applier for the TUI: applying a theme swaps the style
// set and the Markdown style.
type ItemRenderer struct {
	width      int
	noColor    bool
	noMarkdown bool
	theme      theme.Theme
	styles     Styles
	mdRenderer *glamour.TermRenderer
}

var _ theme.Applier = (*ItemRenderer)(nil)

// NewItemRenderer creates a renderer for chat bubbles.
func NewItemRenderer(width int, noColor, noMarkdown bool, t theme.Theme) *ItemRenderer {
	r := &ItemRenderer{
		width:      width,
		noColor:    noColor,
		noMarkdown: noMarkdown,
		theme:      t,
		styles:     StylesFor(t, noColor),
	}
	r.buildMarkdown()
	return r
}

// ApplyTheme implements theme.Applier.
func (r *ItemRenderer) ApplyTheme(t theme.Theme) {
	r.theme = t
	r.styles = StylesFor(t, r.noColor)
	r.buildMarkdown()
}

// Theme returns the theme currently applied.
func (r *ItemRenderer) Theme() theme.Theme {
	return r.theme
}

// Styles returns the style set currently applied.
func (r *ItemRenderer) Styles() Styles {
	return r.styles
}

// SetWidth changes the wrap width, rebuilding the Markdown renderer if needed.
func (r *ItemRenderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.buildMarkdown()
}

func (r *ItemRenderer) buildMarkdown() {
	r.mdRenderer = nil
	if r.noMarkdown {
		return
	}

	w := r.width
	if w <= 0 {
		w = 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			w = tw
		}
	}

	style := string(r.theme)
	if r.noColor {
		style = "notty"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(w),
	)
	if err == nil {
		r.mdRenderer = md
	}
}

// RenderMessage renders a single bubble. Returns empty string for empty text.
func (r *ItemRenderer) RenderMessage(msg session.DisplayMessage) string {
	switch {
	case msg.IsError:
		return r.RenderErrorMessage(msg.Text)
	case msg.Role == models.RoleUser:
		return r.RenderUserMessage(msg.Text)
	case msg.Role == models.RoleAssistant:
		return r.RenderAssistantMessage(msg.Text)
	case msg.Role == models.RoleSystem:
		return r.RenderSystemMessage(msg.Text)
	default:
		return ""
	}
}

// RenderTranscript renders every message in order.
func (r *ItemRenderer) RenderTranscript(msgs []session.DisplayMessage) string {
	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(r.RenderMessage(msg))
	}
	return b.String()
}

// RenderUserMessage renders a user bubble. User text is shown literally.
func (r *ItemRenderer) RenderUserMessage(text string) string {
	if text == "" {
		return ""
	}
	return r.styles.UserLabel.Render("You") + "\n" +
		r.styles.UserMessage.Render(text) + "\n\n"
}

// RenderAssistantMessage renders an assistant bubble with optional markdown.
func (r *ItemRenderer) RenderAssistantMessage(text string) string {
	if text == "" {
		return ""
	}
	label := r.styles.AssistantLabel.Render("Assistant") + "\n"
	if r.mdRenderer != nil {
		rendered, err := r.mdRenderer.Render(text)
		if err == nil {
			return label + strings.TrimLeft(rendered, "\n")
		}
	}
	return label + r.styles.AssistantMessage.Render(text) + "\n\n"
}

// RenderErrorMessage renders a failed turn. Error text is never parsed as
// Markdown.
func (r *ItemRenderer) RenderErrorMessage(text string) string {
	if text == "" {
		return ""
	}
	return r.styles.AssistantLabel.Render("Assistant") + "\n" +
		r.styles.ErrorMessage.Render(text) + "\n\n"
}

// RenderSystemMessage renders a local note that is not part of the chat.
func (r *ItemRenderer) RenderSystemMessage(text string) string {
	if text == "" {
		return ""
	}
	return r.styles.SystemMessage.Render(text) + "\n\n"
}
