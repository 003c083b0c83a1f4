package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfateev/chatbox/internal/session"
)

// healthTimeout bounds GET /health.
const healthTimeout = 5 * time.Second

// Slash commands handled locally; they are never sent to the backend.
const (
	CommandExit   = "/exit"
	CommandQuit   = "/quit"
	CommandTheme  = "/theme"
	CommandClear  = "/clear"
	CommandHealth = "/health"
	CommandHelp   = "/help"
)

var commandHelp = []struct {
	name string
	desc string
}{
	{CommandTheme, "toggle light/dark theme (ctrl+t)"},
	{CommandClear, "start a new conversation"},
	{CommandHealth, "check the backend"},
	{CommandHelp, "show this help"},
	{CommandExit, "quit (also " + CommandQuit + ", ctrl+c)"},
}

// isCommand reports whether line is one of the local slash commands.
func isCommand(line string) bool {
	switch line {
	case CommandExit, CommandQuit, CommandTheme, CommandClear, CommandHealth, CommandHelp:
		return true
	}
	return false
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "\n  %-8s %s", c.name, c.desc)
	}
	b.WriteString("\nEnter sends, ctrl+j inserts a newline.")
	return b.String()
}

// submitCmd runs one turn off the UI goroutine. The View calls and the final
// SubmitDoneMsg all reach the model through the view channel, in order.
func submitCmd(ctx context.Context, mgr *session.Manager, view *ChannelView, text string) tea.Cmd {
	return func() tea.Msg {
		result := mgr.Submit(ctx, text)
		view.Send(SubmitDoneMsg{Result: result})
		return nil
	}
}

// waitForViewEvent delivers the next queued View call.
func waitForViewEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// healthCmd queries GET /health.
func healthCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		h, err := b.Health(ctx)
		return HealthCheckedMsg{Health: h, Err: err}
	}
}
