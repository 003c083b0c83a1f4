package history

import (
	"sync"

	"github.com/mfateev/chatbox/internal/models"
)

// Window is an in-memory ContextManager bounded to a fixed number of entries.
// When an append pushes it over the bound, entries are dropped from the front.
type Window struct {
	entries []models.HistoryEntry
	limit   int
	mu      sync.RWMutex
}

var _ ContextManager = (*Window)(nil)

// NewWindow creates a window holding at most limit entries.
// A non-positive limit falls back to MaxEntries.
func NewWindow(limit int) *Window {
	if limit <= 0 {
		limit = MaxEntries
	}
	return &Window{
		entries: make([]models.HistoryEntry, 0, limit+1),
		limit:   limit,
	}
}

// Append adds an entry and trims the oldest entries beyond the limit.
func (w *Window) Append(entry models.HistoryEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entry)
	w.evictLocked()
}

// AppendAll appends entries in order, applying the bound once at the end.
// The result is the same as calling Append for each entry.
func (w *Window) AppendAll(entries []models.HistoryEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entries...)
	w.evictLocked()
}

func (w *Window) evictLocked() {
	if excess := len(w.entries) - w.limit; excess > 0 {
		// Shift in place so the backing array does not grow without bound.
		n := copy(w.entries, w.entries[excess:])
		clear(w.entries[n:])
		w.entries = w.entries[:n]
	}
}

// Snapshot returns a copy of the current entries, oldest first.
func (w *Window) Snapshot() []models.HistoryEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]models.HistoryEntry, len(w.entries))
	copy(result, w.entries)
	return result
}

// Len returns the number of stored entries.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Limit returns the maximum number of entries kept.
func (w *Window) Limit() int {
	return w.limit
}

// Reset discards all entries.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.entries)
	w.entries = w.entries[:0]
}

// TurnCount returns the number of user entries in the window.
func (w *Window) TurnCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	count := 0
	for _, e := range w.entries {
		if e.Role == models.RoleUser {
			count++
		}
	}
	return count
}

// Trim returns the last limit entries of entries (all of them if they fit).
// The input slice is not modified.
func Trim(entries []models.HistoryEntry, limit int) []models.HistoryEntry {
	w := NewWindow(limit)
	w.AppendAll(entries)
	return w.Snapshot()
}
