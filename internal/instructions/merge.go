package instructions

import "strings"

// MergeInput collects all system prompt sources.
type MergeInput struct {
	// Base is the configured system prompt.
	Base string

	// FileOverride replaces Base when non-empty.
	FileOverride string

	// Notes is appended after the base prompt when non-empty.
	Notes string
}

// Merge combines the sources into the single system message.
func Merge(in MergeInput) string {
	base := strings.TrimSpace(in.Base)
	if o := strings.TrimSpace(in.FileOverride); o != "" {
		base = o
	}
	parts := make([]string, 0, 2)
	if base != "" {
		parts = append(parts, base)
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, "\n\n")
}

// Sources names where the prompt is read from.
type Sources struct {
	Base     string
	File     string
	NotesDir string
}

// Resolve loads File and the notes in NotesDir, then merges them over Base.
// Empty paths are skipped.
func Resolve(src Sources) (string, error) {
	in := MergeInput{Base: src.Base}
	if src.File != "" {
		content, err := LoadFile(src.File)
		if err != nil {
			return "", err
		}
		in.FileOverride = content
	}
	if src.NotesDir != "" {
		notes, _, err := FindNotes(src.NotesDir)
		if err != nil {
			return "", err
		}
		in.Notes = notes
	}
	return Merge(in), nil
}
