// Package history provides the bounded conversation window resent with every
// chat request.
package history

import "github.com/mfateev/chatbox/internal/models"

// MaxEntries is the default window size: ten user/assistant exchanges.
const MaxEntries = 20

// ContextManager is the interface for managing conversation history.
//
// Implementations:
// - Window: bounded in-memory FIFO (default)
type ContextManager interface {
	// Append adds an entry at the end, evicting the oldest entries when the
	// bound is exceeded.
	Append(entry models.HistoryEntry)

	// Snapshot returns a copy of the current entries, oldest first.
	Snapshot() []models.HistoryEntry

	// Len returns the number of stored entries.
	Len() int

	// Limit returns the maximum number of entries kept.
	Limit() int

	// Reset discards all entries.
	Reset()
}
