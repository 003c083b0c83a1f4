package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfateev/chatbox/internal/chatclient"
	"github.com/mfateev/chatbox/internal/cli"
	"github.com/mfateev/chatbox/internal/config"
	"github.com/mfateev/chatbox/internal/logging"
	"github.com/mfateev/chatbox/internal/prefs"
)

// maxStdinMessage caps a message piped on stdin.
const maxStdinMessage = 1 << 20

// chatOptions holds flag values; flags override the environment.
type chatOptions struct {
	url          string
	message      string
	prefsFile    string
	logFile      string
	logLevel     string
	historyLimit int
	timeout      time.Duration
	noColor      bool
	noMarkdown   bool
	inline       bool
}

func newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the backend (interactive unless a message is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, &opts)
		},
	}
	addChatFlags(cmd, &opts)
	return cmd
}

func addChatFlags(cmd *cobra.Command, o *chatOptions) {
	f := cmd.Flags()
	f.StringVar(&o.url, "url", "", "backend base URL (env CHATBOX_URL)")
	f.StringVarP(&o.message, "message", "m", "", "send one message, print the reply and exit")
	f.StringVar(&o.prefsFile, "prefs-file", "", "preferences file (env CHATBOX_PREFS_FILE)")
	f.StringVar(&o.logFile, "log-file", "", "append logs to this file (env CHATBOX_LOG_FILE)")
	f.StringVar(&o.logLevel, "log-level", "", "log level (env CHATBOX_LOG_LEVEL)")
	f.IntVar(&o.historyLimit, "history-limit", 0, "entries kept in the conversation window (env CHATBOX_HISTORY_LIMIT)")
	f.DurationVar(&o.timeout, "timeout", 0, "per-request timeout, 0 for none (env CHATBOX_REQUEST_TIMEOUT)")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored output (env CHATBOX_NO_COLOR)")
	f.BoolVar(&o.noMarkdown, "no-markdown", false, "disable markdown rendering (env CHATBOX_NO_MARKDOWN)")
	f.BoolVar(&o.inline, "inline", false, "disable alt-screen mode (env CHATBOX_INLINE)")
}

// applyChatFlags overrides cfg with every flag the user set explicitly.
func applyChatFlags(cmd *cobra.Command, o *chatOptions, cfg *config.ClientConfig) {
	f := cmd.Flags()
	if f.Changed("url") {
		cfg.URL = o.url
	}
	if f.Changed("prefs-file") {
		cfg.PrefsFile = o.prefsFile
	}
	if f.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("history-limit") {
		cfg.HistoryLimit = o.historyLimit
	}
	if f.Changed("timeout") {
		cfg.RequestTimeout = o.timeout
	}
	if f.Changed("no-color") {
		cfg.NoColor = o.noColor
	}
	if f.Changed("no-markdown") {
		cfg.NoMarkdown = o.noMarkdown
	}
	if f.Changed("inline") {
		cfg.Inline = o.inline
	}
}

func runChat(cmd *cobra.Command, o *chatOptions) error {
	cfg, err := config.LoadClient(nil)
	if err != nil {
		return err
	}
	applyChatFlags(cmd, o, &cfg)
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", cfg.HistoryLimit)
	}

	logger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := cfg.PrefsFile
	if prefsPath == "" {
		if prefsPath, err = prefs.DefaultPath(); err != nil {
			return err
		}
	}
	store := prefs.NewFileStore(prefsPath)

	client := chatclient.New(cfg.URL,
		chatclient.WithTimeout(cfg.RequestTimeout),
		chatclient.WithLogger(logger),
	)

	cliConfig := cli.Config{
		ServerURL:    cfg.URL,
		HistoryLimit: cfg.HistoryLimit,
		NoColor:      cfg.NoColor,
		NoMarkdown:   cfg.NoMarkdown,
		Inline:       cfg.Inline,
	}
	logger.Info().
		Str("url", cfg.URL).
		Str("prefs", store.Path()).
		Int("history_limit", cfg.HistoryLimit).
		Msg("chat starting")

	message := o.message
	if message == "" && !logging.IsTerminal(os.Stdin) {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, maxStdinMessage))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		message = strings.TrimSpace(string(b))
		if message == "" {
			return cli.ErrEmptyMessage
		}
	}

	if message != "" {
		if !logging.IsTerminal(os.Stdout) {
			cliConfig.NoColor = true
		}
		var spinnerOut io.Writer
		if logging.IsTerminal(os.Stderr) {
			spinnerOut = os.Stderr
		}
		return cli.RunOnce(cmd.Context(), cliConfig, client, store, message, os.Stdout, spinnerOut, logger)
	}

	return cli.Run(cmd.Context(), cliConfig, client, store, logger)
}
