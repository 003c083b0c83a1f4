// Package session implements the conversation session manager: it owns the
// bounded history window and drives one request/response exchange at a time,
// reporting every visible step to a View.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/history"
	"github.com/mfateev/chatbox/internal/models"
)

const (
	// FallbackReply is shown and recorded when the backend answers without text.
	FallbackReply = "Failed to get a response from the model."

	// ErrorPrefix starts every error bubble.
	ErrorPrefix = "An error occurred while getting the response: "
)

// DisplayMessage is a single chat bubble handed to the View.
type DisplayMessage struct {
	Role    models.Role
	Text    string
	IsError bool // Failed turn; rendered as an assistant bubble, never stored in history
}

// View is the presentation collaborator. Calls arrive in the order the
// manager performs them and always on the goroutine running Submit.
type View interface {
	DisplayMessage(msg DisplayMessage)
	LoadingStarted()
	LoadingEnded()
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
}

// Exchanger performs one backend round trip with the full history.
// An empty reply with a nil error is a success without text.
type Exchanger interface {
	Exchange(ctx context.Context, history []models.HistoryEntry) (string, error)
}

// Outcome describes how a Submit call ended.
type Outcome int

const (
	OutcomeIgnored  Outcome = iota // Blank input, nothing happened
	OutcomeAnswered                // Assistant reply displayed and recorded
	OutcomeFailed                  // Error bubble displayed, history untouched
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAnswered:
		return "answered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is returned by Submit.
type Result struct {
	Outcome Outcome
	Text    string // Text of the assistant or error bubble; empty when ignored
	Err     error  // Set only for OutcomeFailed
}

// Manager is the conversation session manager.
//
// Manager does not serialize Submit calls: the View disables its trigger for
// the duration of a call and only one call may be in flight.
type Manager struct {
	history   history.ContextManager
	exchanger Exchanger
	view      View
	logger    zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistory replaces the default 20-entry window.
func WithHistory(h history.ContextManager) Option {
	return func(m *Manager) { m.history = h }
}

// WithLogger sets the logger used for failed turns.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a manager with an empty history.
func New(exchanger Exchanger, view View, opts ...Option) *Manager {
	m := &Manager{
		history:   history.NewWindow(history.MaxEntries),
		exchanger: exchanger,
		view:      view,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Append records an entry, evicting the oldest entries past the bound.
func (m *Manager) Append(role models.Role, content string) {
	m.history.Append(models.NewHistoryEntry(role, content))
}

// History returns a copy of the current window, oldest first.
func (m *Manager) History() []models.HistoryEntry {
	return m.history.Snapshot()
}

// Len returns the number of entries in the window.
func (m *Manager) Len() int {
	return m.history.Len()
}

// Reset starts a fresh conversation.
func (m *Manager) Reset() {
	m.history.Reset()
}

// Submit runs one turn for messageText. Blank input is ignored without any
// side effect. Otherwise the user bubble is shown and recorded, the whole
// window is sent, and the reply (or an error bubble) is shown. Input is
// re-enabled, cleared and focused on every exit path.
func (m *Manager) Submit(ctx context.Context, messageText string) Result {
	text := strings.TrimSpace(messageText)
	if text == "" {
		return Result{Outcome: OutcomeIgnored}
	}

	m.view.DisplayMessage(DisplayMessage{Role: models.RoleUser, Text: text})
	m.Append(models.RoleUser, text)
	m.view.LoadingStarted()
	m.view.SetInputEnabled(false)

	defer func() {
		m.view.SetInputEnabled(true)
		m.view.ClearInput()
		m.view.FocusInput()
	}()

	reply, err := m.exchange(ctx)
	if err != nil {
		return m.fail(err)
	}

	m.view.LoadingEnded()
	if reply == "" {
		reply = FallbackReply
	}
	m.view.DisplayMessage(DisplayMessage{Role: models.RoleAssistant, Text: reply})
	m.Append(models.RoleAssistant, reply)

	return Result{Outcome: OutcomeAnswered, Text: reply}
}

// exchange calls the Exchanger, turning a panic into an error so the turn
// still ends with an error bubble.
func (m *Manager) exchange(ctx context.Context) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exchange panicked: %v", r)
		}
	}()
	return m.exchanger.Exchange(ctx, m.history.Snapshot())
}

func (m *Manager) fail(err error) Result {
	m.view.LoadingEnded()

	text := ErrorPrefix + ErrorMessage(err)
	m.view.DisplayMessage(DisplayMessage{Role: models.RoleAssistant, Text: text, IsError: true})

	m.logger.Warn().Err(err).Int("history_len", m.history.Len()).Msg("chat turn failed")
	return Result{Outcome: OutcomeFailed, Text: text, Err: err}
}

// ErrorMessage extracts the user-facing part of a turn failure.
func ErrorMessage(err error) string {
	var exErr *models.ExchangeError
	if errors.As(err, &exErr) {
		return exErr.Message
	}
	return err.Error()
}
