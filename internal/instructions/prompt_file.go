// Package instructions assembles the system prompt the backend sends ahead of
// every conversation: a base prompt, optionally replaced by a prompt file,
// plus notes discovered next to the server.
package instructions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// NotesFileNames lists the notes file names in priority order.
// CHATBOX.override.md takes precedence over CHATBOX.md.
var NotesFileNames = []string{"CHATBOX.override.md", "CHATBOX.md"}

// MaxPromptBytes caps any single prompt source.
const MaxPromptBytes = 64 * 1024

// LoadFile reads a prompt file, trims surrounding whitespace and truncates it
// to MaxPromptBytes on a rune boundary.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading prompt file %s: %w", path, err)
	}
	return clamp(strings.TrimSpace(string(data))), nil
}

// FindNotes returns the content and name of the first NotesFileNames entry
// present in dir. Nothing found is not an error.
func FindNotes(dir string) (string, string, error) {
	for _, name := range NotesFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", "", fmt.Errorf("error reading %s: %w", path, err)
		}
		content, err := LoadFile(path)
		if err != nil {
			return "", "", err
		}
		return content, name, nil
	}
	return "", "", nil
}

func clamp(s string) string {
	if len(s) <= MaxPromptBytes {
		return s
	}
	cut := MaxPromptBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
