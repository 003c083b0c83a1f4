package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/session"
	"github.com/mfateev/chatbox/internal/theme"
)

// stripANSI removes ANSI escape sequences from a string for test assertions.
var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

func newTestRenderer() *ItemRenderer {
	return NewItemRenderer(80, true, true, theme.Light) // noColor=true, noMarkdown=true
}

func TestItemRenderer_RenderUserMessage(t *testing.T) {
	r := newTestRenderer()
	result := r.RenderUserMessage("Hello, **world**!")

	assert.Contains(t, result, "You")
	assert.Contains(t, result, "Hello, **world**!", "user text is shown literally")
}

func TestItemRenderer_RenderAssistantMessage(t *testing.T) {
	r := newTestRenderer()
	result := r.RenderAssistantMessage("Hello, world!")

	assert.Contains(t, result, "Assistant")
	assert.Contains(t, result, "Hello, world!")
}

func TestItemRenderer_EmptyTextRendersNothing(t *testing.T) {
	r := newTestRenderer()
	assert.Empty(t, r.RenderUserMessage(""))
	assert.Empty(t, r.RenderAssistantMessage(""))
	assert.Empty(t, r.RenderErrorMessage(""))
	assert.Empty(t, r.RenderSystemMessage(""))
}

func TestItemRenderer_RenderMessageDispatch(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		msg  session.DisplayMessage
		want string
	}{
		{"user", session.DisplayMessage{Role: models.RoleUser, Text: "hi"}, r.RenderUserMessage("hi")},
		{"assistant", session.DisplayMessage{Role: models.RoleAssistant, Text: "yo"}, r.RenderAssistantMessage("yo")},
		{"error", session.DisplayMessage{Role: models.RoleAssistant, Text: "bad", IsError: true}, r.RenderErrorMessage("bad")},
		{"system", session.DisplayMessage{Role: models.RoleSystem, Text: "note"}, r.RenderSystemMessage("note")},
		{"unknown", session.DisplayMessage{Role: "tool", Text: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.RenderMessage(tt.msg))
		})
	}
}

func TestItemRenderer_ErrorIsNotMarkdown(t *testing.T) {
	r := NewItemRenderer(80, true, false, theme.Light)
	result := r.RenderErrorMessage("An error occurred while getting the response: *boom*")
	assert.Contains(t, result, "*boom*")
}

func TestItemRenderer_RenderTranscript(t *testing.T) {
	r := newTestRenderer()
	out := r.RenderTranscript([]session.DisplayMessage{
		{Role: models.RoleUser, Text: "first"},
		{Role: models.RoleAssistant, Text: "second"},
	})
	require.Contains(t, out, "first")
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestItemRenderer_Markdown(t *testing.T) {
	r := NewItemRenderer(80, false, false, theme.Dark)
	require.NotNil(t, r.mdRenderer)

	result := stripANSI(r.RenderAssistantMessage("Some **bold** text\n\n```go\nfmt.Println(1)\n```"))
	assert.Contains(t, result, "bold")
	assert.NotContains(t, result, "**bold**")
	assert.Contains(t, result, "fmt.Println")
}

func TestItemRenderer_NoMarkdown(t *testing.T) {
	r := newTestRenderer()
	assert.Nil(t, r.mdRenderer)
	assert.Contains(t, r.RenderAssistantMessage("**raw**"), "**raw**")
}

func TestItemRenderer_ApplyTheme(t *testing.T) {
	r := NewItemRenderer(80, false, false, theme.Light)
	assert.Equal(t, theme.Light, r.Theme())
	assert.Equal(t, lipgloss.Color("254"), r.Styles().StatusBar.GetBackground())

	before := r.mdRenderer
	r.ApplyTheme(theme.Dark)
	assert.Equal(t, theme.Dark, r.Theme())
	assert.Equal(t, lipgloss.Color("236"), r.Styles().StatusBar.GetBackground())
	assert.NotSame(t, before, r.mdRenderer, "markdown style is rebuilt")

	r.ApplyTheme(theme.Light)
	assert.Equal(t, lipgloss.Color("254"), r.Styles().StatusBar.GetBackground())
}

func TestItemRenderer_ApplyThemeNoColor(t *testing.T) {
	r := newTestRenderer()
	r.ApplyTheme(theme.Dark)
	assert.Equal(t, theme.Dark, r.Theme())
	assert.Equal(t, NoColorStyles(), r.Styles())
}

func TestStylesFor(t *testing.T) {
	assert.Equal(t, LightStyles(), StylesFor(theme.Light, false))
	assert.Equal(t, DarkStyles(), StylesFor(theme.Dark, false))
	assert.Equal(t, NoColorStyles(), StylesFor(theme.Dark, true))
}

func TestItemRenderer_SetWidth(t *testing.T) {
	r := NewItemRenderer(80, false, false, theme.Light)
	before := r.mdRenderer
	r.SetWidth(80)
	assert.Same(t, before, r.mdRenderer)
	r.SetWidth(120)
	assert.Equal(t, 120, r.width)
	assert.NotSame(t, before, r.mdRenderer)
}
