package models

// ModelConfig configures the backend model call.
type ModelConfig struct {
	Provider    string  `json:"provider"`    // "openai" (any OpenAI-compatible endpoint) or "anthropic"
	Model       string  `json:"model"`       // e.g. "openai/gpt-4o-mini" on OpenRouter
	Temperature float64 `json:"temperature"` // 0 leaves the provider default
	MaxTokens   int     `json:"max_tokens"`  // 0 leaves the provider default (Anthropic requires one)
}

// DefaultModelConfig returns a sensible default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:  "openai",
		Model:     "openai/gpt-4o-mini",
		MaxTokens: 1024,
	}
}
