package cli

import (
	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/session"
)

// DisplayMsg is sent when the session shows a bubble.
type DisplayMsg struct {
	Message session.DisplayMessage
}

// LoadingStartedMsg is sent when the session starts waiting on the backend.
type LoadingStartedMsg struct{}

// LoadingEndedMsg is sent when the backend call has resolved.
type LoadingEndedMsg struct{}

// InputEnabledMsg is sent when the session enables or disables the input.
type InputEnabledMsg struct {
	Enabled bool
}

// ClearInputMsg is sent when the session clears the input.
type ClearInputMsg struct{}

// FocusInputMsg is sent when the session focuses the input.
type FocusInputMsg struct{}

// SubmitDoneMsg is the last message of a turn, after every View call.
type SubmitDoneMsg struct {
	Result session.Result
}

// HealthCheckedMsg carries the result of GET /health.
type HealthCheckedMsg struct {
	Health models.HealthResponse
	Err    error
}
