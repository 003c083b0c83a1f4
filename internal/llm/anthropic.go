package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mfateev/chatbox/internal/models"
)

// defaultAnthropicMaxTokens is used when the config leaves MaxTokens at 0;
// the Messages API requires a value.
const defaultAnthropicMaxTokens = 1024

// AnthropicClient implements Client using Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic client. Extra options are applied
// after the API key.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *AnthropicClient {
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &AnthropicClient{client: client}
}

// Complete sends the request and concatenates the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	maxTokens := request.ModelConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.ModelConfig.Model),
		MaxTokens: int64(maxTokens),
		Messages:  c.buildMessages(request.History),
	}
	if request.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: request.SystemPrompt}}
	}
	if request.ModelConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(request.ModelConfig.Temperature)
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, classifyAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return CompletionResponse{
		Text: text.String(),
		TokenUsage: TokenUsage{
			PromptTokens:     int(response.Usage.InputTokens),
			CompletionTokens: int(response.Usage.OutputTokens),
			TotalTokens:      int(response.Usage.InputTokens + response.Usage.OutputTokens),
		},
	}, nil
}

// buildMessages converts history to Anthropic messages.
//
// The Messages API wants the conversation to open with a user turn and
// roles to alternate. Failed turns are never recorded by the client, so the
// window can hold two user entries in a row, and eviction can leave an
// assistant entry first. Leading assistant entries are dropped and
// consecutive entries with the same role are joined with a blank line.
func (c *AnthropicClient) buildMessages(history []models.HistoryEntry) []anthropic.MessageParam {
	type turn struct {
		role  models.Role
		parts []string
	}
	var turns []turn

	for _, entry := range history {
		if !entry.Role.Valid() {
			continue
		}
		if len(turns) == 0 && entry.Role != models.RoleUser {
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].role == entry.Role {
			turns[n-1].parts = append(turns[n-1].parts, entry.Content)
			continue
		}
		turns = append(turns, turn{role: entry.Role, parts: []string{entry.Content}})
	}

	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(strings.Join(t.parts, "\n\n"))
		if t.role == models.RoleUser {
			messages = append(messages, anthropic.NewUserMessage(block))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		}
	}
	return messages
}

// classifyAnthropicError categorizes an Anthropic API error by status code.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode(apiErr.StatusCode, err)
	}
	return models.NewTransientModelError(fmt.Sprintf("Anthropic API error: %v", err))
}
