package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfateev/chatbox/internal/session"
)

// viewBuffer covers the View calls of one turn plus SubmitDoneMsg.
const viewBuffer = 16

// ChannelView implements session.View by forwarding every call as a tea.Msg
// on a channel the Model drains. Submit runs off the UI goroutine; the
// channel keeps the calls in order and hands them to Update.
type ChannelView struct {
	ch chan tea.Msg
}

var _ session.View = (*ChannelView)(nil)

// NewChannelView creates a view with a buffered event channel.
func NewChannelView() *ChannelView {
	return &ChannelView{ch: make(chan tea.Msg, viewBuffer)}
}

// Events returns the channel the Model reads from.
func (v *ChannelView) Events() <-chan tea.Msg {
	return v.ch
}

// Send queues an arbitrary message behind the View calls already sent.
func (v *ChannelView) Send(msg tea.Msg) {
	v.ch <- msg
}

func (v *ChannelView) DisplayMessage(msg session.DisplayMessage) {
	v.ch <- DisplayMsg{Message: msg}
}

func (v *ChannelView) LoadingStarted() { v.ch <- LoadingStartedMsg{} }

func (v *ChannelView) LoadingEnded() { v.ch <- LoadingEndedMsg{} }

func (v *ChannelView) SetInputEnabled(enabled bool) {
	v.ch <- InputEnabledMsg{Enabled: enabled}
}

func (v *ChannelView) ClearInput() { v.ch <- ClearInputMsg{} }

func (v *ChannelView) FocusInput() { v.ch <- FocusInputMsg{} }
