package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/chatbox/internal/models"
)

func anthropicText(t *testing.T, m anthropic.MessageParam) string {
	t.Helper()
	require.Len(t, m.Content, 1)
	require.NotNil(t, m.Content[0].OfText)
	return m.Content[0].OfText.Text
}

func TestAnthropicBuildMessages_Alternating(t *testing.T) {
	c := &AnthropicClient{}
	msgs := c.buildMessages([]models.HistoryEntry{
		models.NewHistoryEntry(models.RoleUser, "hi"),
		models.NewHistoryEntry(models.RoleAssistant, "hello"),
		models.NewHistoryEntry(models.RoleUser, "bye"),
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	assert.Equal(t, "bye", anthropicText(t, msgs[2]))
}

func TestAnthropicBuildMessages_MergesRepeatedUserTurns(t *testing.T) {
	// A failed exchange leaves two user entries back to back.
	c := &AnthropicClient{}
	msgs := c.buildMessages([]models.HistoryEntry{
		models.NewHistoryEntry(models.RoleUser, "first"),
		models.NewHistoryEntry(models.RoleUser, "second"),
	})

	require.Len(t, msgs, 1)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, "first\n\nsecond", anthropicText(t, msgs[0]))
}

func TestAnthropicBuildMessages_DropsLeadingAssistant(t *testing.T) {
	c := &AnthropicClient{}
	msgs := c.buildMessages([]models.HistoryEntry{
		models.NewHistoryEntry(models.RoleAssistant, "orphan"),
		models.NewHistoryEntry(models.RoleUser, "hi"),
	})

	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", anthropicText(t, msgs[0]))
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Hel"}, {"type": "text", "text": "lo"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 5, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", option.WithBaseURL(srv.URL))
	resp, err := c.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "sys",
		History:      []models.HistoryEntry{models.NewHistoryEntry(models.RoleUser, "hi")},
		ModelConfig:  models.ModelConfig{Model: "claude-haiku-4-5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, 7, resp.TokenUsage.TotalTokens)

	assert.Equal(t, "claude-haiku-4-5", got["model"])
	assert.EqualValues(t, defaultAnthropicMaxTokens, got["max_tokens"])
	assert.NotNil(t, got["system"])
}

func TestAnthropicClient_Complete_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	_, err := c.Complete(context.Background(), CompletionRequest{
		History:     []models.HistoryEntry{models.NewHistoryEntry(models.RoleUser, "hi")},
		ModelConfig: models.ModelConfig{Model: "claude-haiku-4-5"},
	})

	var modelErr *models.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, models.ModelErrorRateLimit, modelErr.Type)
}
