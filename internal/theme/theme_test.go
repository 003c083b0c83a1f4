package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/chatbox/internal/prefs"
)

// recordingApplier keeps the last applied theme and how many times it ran.
type recordingApplier struct {
	applied Theme
	calls   int
}

func (a *recordingApplier) ApplyTheme(t Theme) {
	a.applied = t
	a.calls++
}

type failingStore struct {
	getErr error
	setErr error
}

func (s failingStore) Get(string) (string, bool, error) { return "", false, s.getErr }
func (s failingStore) Set(string, string) error         { return s.setErr }

func TestParse(t *testing.T) {
	th, ok := Parse("dark")
	assert.True(t, ok)
	assert.Equal(t, Dark, th)

	_, ok = Parse("Dark")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestLoad_NoStoredValueKeepsDefault(t *testing.T) {
	applier := &recordingApplier{}
	m := NewManager(prefs.NewMemoryStore(), applier)

	th, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Light, th)
	assert.Equal(t, 0, applier.calls)
}

func TestLoad_AppliesStoredDark(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "dark"))
	applier := &recordingApplier{}

	m := NewManager(store, applier)
	th, err := m.Load()

	require.NoError(t, err)
	assert.Equal(t, Dark, th)
	assert.Equal(t, Dark, m.Current())
	assert.Equal(t, Dark, applier.applied)
}

func TestLoad_IgnoresUnknownValue(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "solarized"))
	applier := &recordingApplier{}

	th, err := NewManager(store, applier).Load()
	require.NoError(t, err)
	assert.Equal(t, Light, th)
	assert.Equal(t, 0, applier.calls)
}

func TestLoad_ReadError(t *testing.T) {
	m := NewManager(failingStore{getErr: errors.New("disk gone")}, nil)
	th, err := m.Load()
	assert.Error(t, err)
	assert.Equal(t, Light, th)
}

func TestToggle_PersistsAndApplies(t *testing.T) {
	store := prefs.NewMemoryStore()
	applier := &recordingApplier{}
	m := NewManager(store, applier)

	th, err := m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, th)
	assert.Equal(t, Dark, applier.applied)

	v, ok, _ := store.Get(StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestToggle_TwiceRoundTrips(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "light"))
	applier := &recordingApplier{}
	m := NewManager(store, applier)
	_, err := m.Load()
	require.NoError(t, err)

	_, err = m.Toggle()
	require.NoError(t, err)
	_, err = m.Toggle()
	require.NoError(t, err)

	v, _, _ := store.Get(StorageKey)
	assert.Equal(t, "light", v)
	assert.Equal(t, Light, applier.applied)
	assert.Equal(t, Light, m.Current())
}

func TestToggle_SaveErrorStillApplies(t *testing.T) {
	applier := &recordingApplier{}
	m := NewManager(failingStore{setErr: errors.New("read-only")}, applier)

	th, err := m.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Dark, th)
	assert.Equal(t, Dark, applier.applied)
}

func TestApplierFunc(t *testing.T) {
	var got Theme
	m := NewManager(prefs.NewMemoryStore(), ApplierFunc(func(t Theme) { got = t }))
	_, _ = m.Toggle()
	assert.Equal(t, Dark, got)
}
