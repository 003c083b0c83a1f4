package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/history"
	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/prefs"
	"github.com/mfateev/chatbox/internal/session"
	"github.com/mfateev/chatbox/internal/theme"
	"github.com/mfateev/chatbox/internal/version"
)

const (
	MaxTextareaHeight = 10 // Maximum height for multi-line input

	waitingMessage = "Waiting for response..."
)

// Backend is the chat backend the TUI talks to.
type Backend interface {
	session.Exchanger
	Health(ctx context.Context) (models.HealthResponse, error)
}

// Config holds CLI configuration.
type Config struct {
	ServerURL    string
	HistoryLimit int // Non-positive means history.MaxEntries
	NoMarkdown   bool
	NoColor      bool
	Inline       bool // Disable alt-screen mode
}

// backendState is what the status bar shows for the backend.
type backendState int

const (
	backendUnknown backendState = iota
	backendHealthy
	backendUnreachable
)

// Model is the bubbletea model for the interactive chat.
type Model struct {
	// Configuration
	config    Config
	backend   Backend
	keys      KeyMap
	logger    zerolog.Logger
	sessionID string

	// Collaborators
	session  *session.Manager
	view     *ChannelView
	themes   *theme.Manager
	renderer *ItemRenderer

	// Sub-models
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Layout
	width  int
	height int
	ready  bool

	// Everything shown so far, re-rendered when the theme or width changes
	transcript      []session.DisplayMessage
	viewportContent string

	// Turn state, driven by the View calls of the session manager
	inputEnabled bool
	loading      bool
	submitting   bool // set on Enter, cleared by SubmitDoneMsg
	turnCancel   context.CancelFunc

	// Paste buffering: multi-line pastes show "[N lines pasted]" placeholder
	pastedContent string
	pasteLabel    string

	backendState  backendState
	backendDetail string

	quitting bool
}

// NewModel creates a new bubbletea model. The stored theme preference is
// loaded and applied here, before the first frame.
func NewModel(config Config, backend Backend, store prefs.Store, logger zerolog.Logger) Model {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = history.MaxEntries
	}

	sessionID := uuid.NewString()[:8]
	logger = logger.With().Str("session_id", sessionID).Logger()

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "❯ "
	ta.CharLimit = 0
	ta.SetHeight(1) // Single line until Shift+Enter adds a newline
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true) // Enable multi-line input
	// Shift+Enter sends ctrl+j (LF) in most terminals, distinct from Enter (CR)
	ta.KeyMap.InsertNewline.SetKeys("ctrl+j")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer := NewItemRenderer(0, config.NoColor, config.NoMarkdown, theme.Default)
	view := NewChannelView()

	m := Model{
		config:       config,
		backend:      backend,
		keys:         DefaultKeyMap(),
		logger:       logger,
		sessionID:    sessionID,
		view:         view,
		renderer:     renderer,
		textarea:     ta,
		spinner:      sp,
		inputEnabled: true,
		session: session.New(backend, view,
			session.WithHistory(history.NewWindow(config.HistoryLimit)),
			session.WithLogger(logger),
		),
		themes: theme.NewManager(store, renderer, theme.WithLogger(logger)),
	}

	if _, err := m.themes.Load(); err != nil {
		logger.Warn().Err(err).Msg("could not load theme preference")
		m.transcript = append(m.transcript, systemNote(fmt.Sprintf("Could not read theme preference: %v", err)))
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForViewEvent(m.view.Events()),
		healthCmd(m.backend),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case DisplayMsg:
		m.appendMessage(msg.Message)
		cmds = append(cmds, m.waitForViewEvent())

	case LoadingStartedMsg:
		m.loading = true
		cmds = append(cmds, m.spinner.Tick, m.waitForViewEvent())

	case LoadingEndedMsg:
		m.loading = false
		cmds = append(cmds, m.waitForViewEvent())

	case InputEnabledMsg:
		m.inputEnabled = msg.Enabled
		if !msg.Enabled {
			m.textarea.Blur()
		}
		cmds = append(cmds, m.waitForViewEvent())

	case ClearInputMsg:
		m.textarea.Reset()
		m.pastedContent = ""
		m.pasteLabel = ""
		m.resizeTextarea(1)
		cmds = append(cmds, m.waitForViewEvent())

	case FocusInputMsg:
		if m.inputEnabled {
			cmds = append(cmds, m.focusTextarea())
		}
		cmds = append(cmds, m.waitForViewEvent())

	case SubmitDoneMsg:
		return m.handleSubmitDone(msg)

	case HealthCheckedMsg:
		m.handleHealth(msg)
	}

	return &m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	styles := m.renderer.Styles()
	if !m.ready {
		return styles.SpinnerMessage.Render(m.spinner.View() + " Starting...")
	}

	sep := styles.Separator.Render(strings.Repeat("─", m.width))

	var inputView string
	if m.loading {
		inputView = m.spinner.View() + " " + styles.SpinnerMessage.Render(waitingMessage)
	} else {
		inputView = m.textarea.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		sep,
		inputView,
		sep,
		m.renderStatusBar(),
	)
}

func (m Model) renderStatusBar() string {
	state := "ready"
	if m.loading || m.submitting {
		state = "waiting"
	}

	left := fmt.Sprintf(" chatbox · %d/%d messages · %s · %s",
		m.session.Len(), m.config.HistoryLimit, m.themes.Current(), state)

	var backend string
	switch m.backendState {
	case backendHealthy:
		backend = "backend: ok"
	case backendUnreachable:
		backend = "backend: unreachable"
	default:
		backend = "backend: ?"
	}
	right := fmt.Sprintf("%s · %s ", backend, version.GitCommit)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.renderer.Styles().StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	vpHeight := m.viewportHeight(m.calculateTextareaHeight())

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.renderer.SetWidth(m.width)
		m.textarea.SetWidth(m.width)
		m.rerender()
		m.ready = true
		return m, m.focusTextarea()
	}

	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(m.width)
	if m.renderer.width != m.width {
		m.renderer.SetWidth(m.width)
		m.rerender()
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Disconnect):
		if !m.busy() {
			return m.quit()
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil
	}

	if m.isScrollKey(msg) {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// The trigger is disabled while a turn is in flight.
	if m.busy() {
		return m, nil
	}

	// Intercept multi-line paste: show "[N lines pasted]" placeholder
	if msg.Paste && msg.Type == tea.KeyRunes && strings.ContainsRune(string(msg.Runes), '\n') {
		content := string(msg.Runes)
		lines := strings.Count(content, "\n") + 1
		m.pastedContent = content
		m.pasteLabel = fmt.Sprintf("[%d lines pasted]", lines)
		synthetic := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(m.pasteLabel)}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(synthetic)
		return m, cmd
	}

	// Ignore Enter during a bracketed paste (don't submit mid-paste)
	if msg.Paste && msg.Type == tea.KeyEnter {
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.handleSubmit()
	}

	// Pre-expand textarea height for newline insertion so the internal
	// viewport has room before the newline is added.
	if key.Matches(msg, m.keys.Newline) {
		m.resizeTextarea(min(m.calculateTextareaHeight()+1, MaxTextareaHeight))
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.resizeTextarea(m.calculateTextareaHeight())
	return m, cmd
}

// handleSubmit handles Enter: local commands run here, anything else starts
// a turn on the session manager.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	line := m.expandPastedContent(m.textarea.Value())
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return m, nil
	}

	if isCommand(trimmed) {
		m.textarea.Reset()
		m.pastedContent = ""
		m.pasteLabel = ""
		m.resizeTextarea(1)
		return m.runCommand(trimmed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.turnCancel = cancel
	m.submitting = true
	m.textarea.Blur()
	return m, submitCmd(ctx, m.session, m.view, line)
}

func (m *Model) runCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case CommandExit, CommandQuit:
		return m.quit()
	case CommandTheme:
		m.toggleTheme()
	case CommandClear:
		m.session.Reset()
		m.transcript = nil
		m.rerender()
		m.appendMessage(systemNote("Started a new conversation."))
	case CommandHealth:
		m.backendState = backendUnknown
		return m, healthCmd(m.backend)
	case CommandHelp:
		m.appendMessage(systemNote(helpText()))
	}
	return m, nil
}

func (m *Model) handleSubmitDone(msg SubmitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if m.turnCancel != nil {
		m.turnCancel()
		m.turnCancel = nil
	}

	cmds := []tea.Cmd{m.waitForViewEvent()}
	m.logger.Debug().
		Str("outcome", msg.Result.Outcome.String()).
		Int("history_len", m.session.Len()).
		Msg("turn finished")

	// A failed turn may mean the backend went away.
	if msg.Result.Outcome == session.OutcomeFailed {
		cmds = append(cmds, healthCmd(m.backend))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleHealth(msg HealthCheckedMsg) {
	if msg.Err != nil {
		m.backendState = backendUnreachable
		m.backendDetail = msg.Err.Error()
		m.logger.Debug().Err(msg.Err).Msg("health check failed")
		return
	}
	m.backendState = backendHealthy
	m.backendDetail = msg.Health.Service
}

// toggleTheme flips the theme and re-renders the transcript. A failed save
// keeps the new theme and leaves a note.
func (m *Model) toggleTheme() {
	t, err := m.themes.Toggle()
	m.rerender()
	if err != nil {
		m.appendMessage(systemNote(fmt.Sprintf("Switched to %s theme but could not save it: %v", t, err)))
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.turnCancel != nil {
		m.turnCancel()
		m.turnCancel = nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) busy() bool {
	return m.submitting || !m.inputEnabled
}

func (m *Model) isScrollKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.PageUp, m.keys.PageDown, m.keys.Home, m.keys.End) ||
		(m.calculateTextareaHeight() == 1 && key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDn))
}

func (m *Model) appendMessage(msg session.DisplayMessage) {
	m.transcript = append(m.transcript, msg)
	m.appendToViewport(m.renderer.RenderMessage(msg))
}

func (m *Model) appendToViewport(content string) {
	wasAtBottom := m.viewport.AtBottom()

	m.viewportContent += content
	m.viewport.SetContent(m.viewportContent)

	if wasAtBottom || !m.ready {
		m.viewport.GotoBottom()
	}
}

// rerender rebuilds the viewport from the transcript with the current
// renderer settings.
func (m *Model) rerender() {
	m.viewportContent = m.renderer.RenderTranscript(m.transcript)
	m.viewport.SetContent(m.viewportContent)
	m.viewport.GotoBottom()
}

// focusTextarea focuses the textarea and returns the blink command.
// In test environments where the cursor context isn't available, this recovers
// from panics gracefully.
func (m *Model) focusTextarea() tea.Cmd {
	defer func() { recover() }()
	m.textarea.Focus()
	return textarea.Blink
}

func (m *Model) waitForViewEvent() tea.Cmd {
	return waitForViewEvent(m.view.Events())
}

// calculateTextareaHeight returns the appropriate height for the textarea
// based on the number of lines in the current content.
func (m *Model) calculateTextareaHeight() int {
	lines := strings.Count(m.textarea.Value(), "\n") + 1
	return max(1, min(lines, MaxTextareaHeight))
}

func (m *Model) resizeTextarea(height int) {
	if height == m.textarea.Height() {
		return
	}
	m.textarea.SetHeight(height)
	m.viewport.Height = m.viewportHeight(height)
}

// viewportHeight reserves separator(1) + input + separator(1) + status(1).
func (m *Model) viewportHeight(inputHeight int) int {
	return max(1, m.height-inputHeight-3)
}

// expandPastedContent replaces the "[N lines pasted]" placeholder in the
// textarea value with the actual buffered paste content before submission.
func (m *Model) expandPastedContent(value string) string {
	if m.pastedContent != "" && m.pasteLabel != "" {
		return strings.Replace(value, m.pasteLabel, m.pastedContent, 1)
	}
	return value
}

func systemNote(text string) session.DisplayMessage {
	return session.DisplayMessage{Role: models.RoleSystem, Text: text}
}

// Run starts the interactive chat and blocks until the user quits.
func Run(ctx context.Context, config Config, backend Backend, store prefs.Store, logger zerolog.Logger) error {
	model := NewModel(config, backend, store, logger)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !config.Inline {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	// Enable CSI 1007 alternate scroll mode: the terminal translates mouse
	// wheel events into arrow key sequences. This gives us wheel scrolling
	// without capturing the mouse, so normal text selection keeps working.
	fmt.Fprint(os.Stderr, "\x1b[?1007h")
	defer fmt.Fprint(os.Stderr, "\x1b[?1007l")

	finalModel, err := p.Run()
	if fm, ok := finalModel.(*Model); ok && fm.turnCancel != nil {
		fm.turnCancel()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
