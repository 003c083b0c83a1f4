package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/mfateev/chatbox/internal/models"
)

// OpenAIClient implements Client with the Chat Completions API of any
// OpenAI-compatible endpoint (OpenRouter by default).
type OpenAIClient struct {
	client openai.Client
}

// OpenAIOptions configures NewOpenAIClient.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string // empty uses api.openai.com

	// OpenRouter attribution headers, sent only when set
	Referrer string
	Title    string
}

// NewOpenAIClient creates an OpenAI-compatible client. Extra options are
// applied last.
func NewOpenAIClient(o OpenAIOptions, extra ...option.RequestOption) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(o.APIKey)}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	if o.Referrer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", o.Referrer))
	}
	if o.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", o.Title))
	}
	opts = append(opts, extra...)
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete sends the system prompt and history and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(request.ModelConfig.Model),
		Messages: c.buildMessages(request),
	}
	if request.ModelConfig.Temperature > 0 {
		params.Temperature = openai.Float(request.ModelConfig.Temperature)
	}
	if request.ModelConfig.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.ModelConfig.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, classifyError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return CompletionResponse{
		Text: text,
		TokenUsage: TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildMessages converts the request to chat messages:
// system prompt first (when set), then history in order.
// Entries with roles other than user/assistant are skipped.
func (c *OpenAIClient) buildMessages(request CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(request.History)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(request.SystemPrompt))
	}

	for _, entry := range request.History {
		switch entry.Role {
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(entry.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(entry.Content))
		}
	}

	return messages
}

// classifyError categorizes an OpenAI API error using the HTTP status code
// when available, falling back to message-based heuristics.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode(apiErr.StatusCode, err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "rate_limit") || strings.Contains(errMsg, "rate limit") {
		return models.NewRateLimitModelError(err.Error())
	}
	return models.NewTransientModelError(fmt.Sprintf("OpenAI API error: %v", err))
}
