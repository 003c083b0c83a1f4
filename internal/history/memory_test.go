package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/chatbox/internal/models"
)

// buildEntries creates n alternating user/assistant entries numbered from 0.
func buildEntries(n int) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, n)
	for i := range entries {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		entries[i] = models.NewHistoryEntry(role, fmt.Sprintf("msg-%d", i))
	}
	return entries
}

func TestWindow_BoundHoldsForAnyAppendCount(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 40, 57} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			w := NewWindow(MaxEntries)
			all := buildEntries(n)
			for _, e := range all {
				w.Append(e)
				assert.LessOrEqual(t, w.Len(), MaxEntries)
			}

			want := n
			if want > MaxEntries {
				want = MaxEntries
			}
			got := w.Snapshot()
			require.Len(t, got, want)
			assert.Equal(t, all[n-want:], got, "window must hold the most recent entries in order")
		})
	}
}

func TestWindow_EvictsOldestFirst(t *testing.T) {
	w := NewWindow(3)
	w.Append(models.NewHistoryEntry(models.RoleUser, "a"))
	w.Append(models.NewHistoryEntry(models.RoleAssistant, "b"))
	w.Append(models.NewHistoryEntry(models.RoleUser, "c"))
	w.Append(models.NewHistoryEntry(models.RoleAssistant, "d"))

	got := w.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Content)
	assert.Equal(t, "d", got[2].Content)
}

func TestWindow_NonPositiveLimitUsesDefault(t *testing.T) {
	assert.Equal(t, MaxEntries, NewWindow(0).Limit())
	assert.Equal(t, MaxEntries, NewWindow(-5).Limit())
}

func TestWindow_SnapshotIsACopy(t *testing.T) {
	w := NewWindow(5)
	w.Append(models.NewHistoryEntry(models.RoleUser, "original"))

	snap := w.Snapshot()
	snap[0].Content = "mutated"

	assert.Equal(t, "original", w.Snapshot()[0].Content)
}

func TestWindow_AppendAllMatchesAppend(t *testing.T) {
	entries := buildEntries(33)

	one := NewWindow(MaxEntries)
	for _, e := range entries {
		one.Append(e)
	}
	bulk := NewWindow(MaxEntries)
	bulk.AppendAll(entries)

	assert.Equal(t, one.Snapshot(), bulk.Snapshot())
}

func TestWindow_Reset(t *testing.T) {
	w := NewWindow(4)
	w.AppendAll(buildEntries(4))
	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.Snapshot())
}

func TestWindow_TurnCount(t *testing.T) {
	w := NewWindow(MaxEntries)
	w.AppendAll(buildEntries(5)) // user, assistant, user, assistant, user
	assert.Equal(t, 3, w.TurnCount())
}

func TestTrim_DoesNotModifyInput(t *testing.T) {
	entries := buildEntries(25)
	trimmed := Trim(entries, MaxEntries)

	require.Len(t, trimmed, MaxEntries)
	assert.Equal(t, "msg-5", trimmed[0].Content)
	assert.Len(t, entries, 25)
	assert.Equal(t, "msg-0", entries[0].Content)
}

func TestWindow_ConcurrentReaders(t *testing.T) {
	w := NewWindow(MaxEntries)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = w.Len()
				_ = w.Snapshot()
			}
		}()
	}
	for _, e := range buildEntries(100) {
		w.Append(e)
	}
	wg.Wait()
	assert.Equal(t, MaxEntries, w.Len())
}
