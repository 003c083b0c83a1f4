package llm

import "fmt"

// ProviderOptions selects and configures a provider for NewClient.
type ProviderOptions struct {
	Provider string // "openai" (default) or "anthropic"
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only
	Referrer string
	Title    string
}

// NewClient creates the LLM client for the named provider.
func NewClient(o ProviderOptions) (Client, error) {
	switch o.Provider {
	case "openai", "":
		return NewOpenAIClient(OpenAIOptions{
			APIKey:   o.APIKey,
			BaseURL:  o.BaseURL,
			Referrer: o.Referrer,
			Title:    o.Title,
		}), nil
	case "anthropic":
		return NewAnthropicClient(o.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", o.Provider)
	}
}
