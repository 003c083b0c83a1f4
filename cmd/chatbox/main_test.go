package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/chatbox/internal/config"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chat"])
	assert.True(t, names["serve"])
	assert.True(t, names["keys"])
	assert.NotNil(t, root.RunE, "bare chatbox runs the chat")
	assert.NotNil(t, root.Flags().Lookup("message"))
}

func TestApplyChatFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := newChatCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--url", "http://example.test:9000", "--timeout", "3s", "--no-color"}))

	var opts chatOptions
	opts.url = "http://example.test:9000"
	opts.timeout = 3 * time.Second
	opts.noColor = true

	cfg := config.ClientConfig{
		URL:          "http://127.0.0.1:5000",
		HistoryLimit: 20,
		LogLevel:     "info",
		NoMarkdown:   true,
	}
	applyChatFlags(cmd, &opts, &cfg)

	assert.Equal(t, "http://example.test:9000", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 20, cfg.HistoryLimit, "unset flag keeps env value")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.NoMarkdown)
}
