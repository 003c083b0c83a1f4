// Package config loads client and server settings from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultSystemPrompt = "You are a helpful and friendly assistant designed to help with tasks. " +
		"Keep the context of the previous 10 messages."
)

// ServerConfig configures `chatbox serve`.
type ServerConfig struct {
	Addr     string `env:"CHATBOX_ADDR" envDefault:"127.0.0.1:5000"`
	Provider string `env:"CHATBOX_PROVIDER" envDefault:"openai"`

	// OpenAI-compatible endpoint (OpenRouter by default)
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL"`
	Model   string `env:"OPENROUTER_MODEL"`

	// OpenRouter attribution headers (optional)
	Referrer string `env:"OPENROUTER_REFERRER"`
	Title    string `env:"OPENROUTER_TITLE"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4-5"`

	SystemPrompt     string `env:"CHATBOX_SYSTEM_PROMPT"`
	SystemPromptFile string `env:"CHATBOX_SYSTEM_PROMPT_FILE"` // replaces SystemPrompt when set
	NotesDir         string `env:"CHATBOX_NOTES_DIR"`          // searched for CHATBOX.md

	MaxTokens    int     `env:"CHATBOX_MAX_TOKENS" envDefault:"1024"`
	Temperature  float64 `env:"CHATBOX_TEMPERATURE"`
	HistoryLimit int     `env:"CHATBOX_HISTORY_LIMIT" envDefault:"20"`

	LogLevel        string        `env:"CHATBOX_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"CHATBOX_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ClientConfig configures `chatbox chat`.
type ClientConfig struct {
	URL            string        `env:"CHATBOX_URL" envDefault:"http://127.0.0.1:5000"`
	PrefsFile      string        `env:"CHATBOX_PREFS_FILE"`
	HistoryLimit   int           `env:"CHATBOX_HISTORY_LIMIT" envDefault:"20"`
	RequestTimeout time.Duration `env:"CHATBOX_REQUEST_TIMEOUT" envDefault:"0s"`
	LogFile        string        `env:"CHATBOX_LOG_FILE"`
	LogLevel       string        `env:"CHATBOX_LOG_LEVEL" envDefault:"info"`
	NoColor        bool          `env:"CHATBOX_NO_COLOR"`
	NoMarkdown     bool          `env:"CHATBOX_NO_MARKDOWN"`
	Inline         bool          `env:"CHATBOX_INLINE"`
}

// LoadDotEnv loads the given .env files (".env" when none are given) without
// overriding variables already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadServer parses ServerConfig from environ (the process environment when
// nil) and validates it.
func LoadServer(environ map[string]string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := parse(&cfg, environ); err != nil {
		return cfg, fmt.Errorf("failed to parse server config: %w", err)
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, cfg.Validate()
}

// LoadClient parses ClientConfig from environ (the process environment when nil).
func LoadClient(environ map[string]string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := parse(&cfg, environ); err != nil {
		return cfg, fmt.Errorf("failed to parse client config: %w", err)
	}
	return cfg, nil
}

func parse(v any, environ map[string]string) error {
	if environ == nil {
		return env.Parse(v)
	}
	return env.ParseWithOptions(v, env.Options{Environment: environ})
}

// Validate reports every missing variable the selected provider needs in a
// single error.
func (c ServerConfig) Validate() error {
	var missing []string
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			missing = append(missing, "OPENROUTER_API_KEY")
		}
		if c.BaseURL == "" {
			missing = append(missing, "OPENROUTER_BASE_URL")
		}
		if c.Model == "" {
			missing = append(missing, "OPENROUTER_MODEL")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
		if c.AnthropicModel == "" {
			missing = append(missing, "ANTHROPIC_MODEL")
		}
	default:
		return fmt.Errorf("unsupported provider %q (supported: %s, %s)", c.Provider, ProviderOpenAI, ProviderAnthropic)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("CHATBOX_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

// ModelName returns the model used by the selected provider.
func (c ServerConfig) ModelName() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.Model
}
