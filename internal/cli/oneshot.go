package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/prefs"
	"github.com/mfateev/chatbox/internal/session"
	"github.com/mfateev/chatbox/internal/theme"
)

// ErrEmptyMessage is returned by RunOnce for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// LineView implements session.View for non-interactive use. Assistant
// replies are written to out. Error bubbles are left to the caller, which
// gets them back from Submit. Input hooks are no-ops.
type LineView struct {
	out      io.Writer
	renderer *ItemRenderer
	spinner  *Spinner // nil disables the waiting indicator
}

var _ session.View = (*LineView)(nil)

// NewLineView creates a line-oriented view. spinner may be nil.
func NewLineView(out io.Writer, renderer *ItemRenderer, spinner *Spinner) *LineView {
	return &LineView{out: out, renderer: renderer, spinner: spinner}
}

func (v *LineView) DisplayMessage(msg session.DisplayMessage) {
	if msg.IsError || msg.Role != models.RoleAssistant {
		return
	}
	fmt.Fprint(v.out, strings.TrimLeft(v.renderer.RenderAssistantMessage(msg.Text), "\n"))
}

func (v *LineView) LoadingStarted() {
	if v.spinner != nil {
		v.spinner.Start(waitingMessage)
	}
}

func (v *LineView) LoadingEnded() {
	if v.spinner != nil {
		v.spinner.Stop()
	}
}

func (v *LineView) SetInputEnabled(bool) {}
func (v *LineView) ClearInput()          {}
func (v *LineView) FocusInput()          {}

// RunOnce sends a single message, prints the reply to out and returns.
// The spinner is drawn on errOut when it is non-nil. A failed turn is
// returned as an error carrying the same text the TUI would show.
func RunOnce(ctx context.Context, config Config, backend Backend, store prefs.Store,
	message string, out, errOut io.Writer, logger zerolog.Logger) error {
	renderer := NewItemRenderer(0, config.NoColor, config.NoMarkdown, theme.Default)
	themes := theme.NewManager(store, renderer, theme.WithLogger(logger))
	if _, err := themes.Load(); err != nil {
		logger.Warn().Err(err).Msg("could not load theme preference")
	}

	var sp *Spinner
	if errOut != nil {
		sp = NewSpinner(errOut)
	}

	mgr := session.New(backend, NewLineView(out, renderer, sp), session.WithLogger(logger))
	result := mgr.Submit(ctx, message)
	switch result.Outcome {
	case session.OutcomeIgnored:
		return ErrEmptyMessage
	case session.OutcomeFailed:
		return errors.New(result.Text)
	}
	return nil
}
