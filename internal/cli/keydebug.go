package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const keyDebugRows = 20

// KeyDebugModel echoes every key event together with the chat binding it
// triggers. Useful for checking what a terminal sends for shift+enter.
type KeyDebugModel struct {
	keys KeyMap
	log  []string
}

// NewKeyDebugModel returns a key echo model using the default bindings.
func NewKeyDebugModel() KeyDebugModel {
	return KeyDebugModel{keys: DefaultKeyMap()}
}

func (m KeyDebugModel) Init() tea.Cmd { return nil }

func (m KeyDebugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		m.log = append(m.log, describeKey(msg, m.keys))
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m KeyDebugModel) View() string {
	var b strings.Builder
	b.WriteString("Press keys to see what the chat receives. Ctrl+C to quit.\n\n")

	start := 0
	if len(m.log) > keyDebugRows {
		start = len(m.log) - keyDebugRows
	}
	for _, line := range m.log[start:] {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// Lines returns the recorded descriptions, oldest first.
func (m KeyDebugModel) Lines() []string { return m.log }

func describeKey(msg tea.KeyMsg, keys KeyMap) string {
	desc := fmt.Sprintf("%-12q type=%d alt=%v paste=%v", msg.String(), msg.Type, msg.Alt, msg.Paste)
	if action := bindingFor(msg, keys); action != "" {
		desc += " -> " + action
	}
	return desc
}

// bindingFor names the chat action msg maps to, or "" for plain input.
func bindingFor(msg tea.KeyMsg, keys KeyMap) string {
	bindings := []key.Binding{
		keys.Submit, keys.Newline, keys.Quit, keys.Disconnect, keys.ToggleTheme,
		keys.ScrollUp, keys.ScrollDn, keys.PageUp, keys.PageDown, keys.Home, keys.End,
	}
	for _, b := range bindings {
		if key.Matches(msg, b) {
			return b.Help().Desc
		}
	}
	return ""
}

// RunKeyDebug runs the key echo program on the alternate screen.
func RunKeyDebug() error {
	_, err := tea.NewProgram(NewKeyDebugModel(), tea.WithAltScreen()).Run()
	return err
}
