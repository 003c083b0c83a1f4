package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfateev/chatbox/internal/config"
	"github.com/mfateev/chatbox/internal/instructions"
	"github.com/mfateev/chatbox/internal/llm"
	"github.com/mfateev/chatbox/internal/logging"
	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/server"
)

type serveOptions struct {
	addr     string
	logLevel string
	jsonLogs bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat backend (POST /chat, GET /health)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "listen address (env CHATBOX_ADDR)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (env CHATBOX_LOG_LEVEL)")
	f.BoolVar(&opts.jsonLogs, "json-logs", false, "log JSON even on a terminal")
	return cmd
}

func runServe(cmd *cobra.Command, o *serveOptions) error {
	cfg, err := config.LoadServer(nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = o.addr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	logger, lerr := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Output:  os.Stderr,
		Console: !o.jsonLogs && logging.IsTerminal(os.Stderr),
	})
	if lerr != nil {
		logger.Warn().Err(lerr).Msg("log level")
	}

	providerOpts := llm.ProviderOptions{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Referrer: cfg.Referrer,
		Title:    cfg.Title,
	}
	if cfg.Provider == config.ProviderAnthropic {
		providerOpts.APIKey = cfg.AnthropicAPIKey
	}
	client, err := llm.NewClient(providerOpts)
	if err != nil {
		return err
	}

	prompt, err := instructions.Resolve(instructions.Sources{
		Base:     cfg.SystemPrompt,
		File:     cfg.SystemPromptFile,
		NotesDir: cfg.NotesDir,
	})
	if err != nil {
		return err
	}
	logger.Debug().Int("prompt_len", len(prompt)).Msg("system prompt resolved")

	srv := server.New(client, server.Options{
		SystemPrompt: prompt,
		ModelConfig: models.ModelConfig{
			Provider:    cfg.Provider,
			Model:       cfg.ModelName(),
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		HistoryLimit:    cfg.HistoryLimit,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Addr)
}
