// Package logging builds the zerolog loggers used by the server and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	Level   string    // zerolog level name; empty means info
	Output  io.Writer // defaults to os.Stderr
	Console bool      // human-readable output instead of JSON
}

// New returns a logger writing to opts.Output with a timestamp on every event.
// An unknown level falls back to info and is reported in the returned error.
func New(opts Options) (zerolog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	level, err := ParseLevel(opts.Level)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, err
}

// ParseLevel parses a level name, defaulting to info for "" and unknown names.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q, using info", name)
	}
	return level, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// OpenFile returns a JSON logger appending to path, and a close func.
// An empty path returns a disabled logger; the TUI owns stdout and stderr so
// it never logs to them.
func OpenFile(path, level string) (zerolog.Logger, func() error, error) {
	if path == "" {
		return zerolog.Nop(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, lerr := New(Options{Level: level, Output: f})
	if lerr != nil {
		logger.Warn().Err(lerr).Msg("log level")
	}
	return logger, f.Close, nil
}
