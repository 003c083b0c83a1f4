// Package llm provides the backend model integrations used by POST /chat.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mfateev/chatbox/internal/models"
)

// CompletionRequest is one model call: system prompt plus the client's window.
type CompletionRequest struct {
	SystemPrompt string                `json:"system_prompt,omitempty"`
	History      []models.HistoryEntry `json:"history"`
	ModelConfig  models.ModelConfig    `json:"model_config"`
}

// TokenUsage reports token counts when the provider returns them.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the model's reply. Text may be empty.
type CompletionResponse struct {
	Text       string     `json:"text"`
	TokenUsage TokenUsage `json:"token_usage"`
}

// Client is the interface for model providers.
type Client interface {
	Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error)
}

// classifyByStatusCode maps an HTTP status code to the appropriate ModelError.
// Shared by all provider error classifiers.
//
// Classification:
//   - 429 (Too Many Requests): rate limit, retryable
//   - 408 (Request Timeout), 409 (Conflict): transient, retryable
//   - Other 4xx: fatal client error, non-retryable (e.g., 400, 401, 403, 404)
//   - 5xx: transient server error, retryable
func classifyByStatusCode(statusCode int, err error) *models.ModelError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return models.NewRateLimitModelError(fmt.Sprintf("rate limit (%d): %v", statusCode, err))
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusConflict:
		return models.NewTransientModelError(fmt.Sprintf("retryable error (%d): %v", statusCode, err))
	case statusCode >= 400 && statusCode < 500:
		return models.NewFatalModelError(fmt.Sprintf("client error (%d): %v", statusCode, err))
	case statusCode >= 500:
		return models.NewTransientModelError(fmt.Sprintf("server error (%d): %v", statusCode, err))
	default:
		return models.NewTransientModelError(fmt.Sprintf("unexpected status (%d): %v", statusCode, err))
	}
}
