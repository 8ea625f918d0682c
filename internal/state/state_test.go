package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(t.TempDir())

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s, "absence of the file means no active session")
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileStore(dir)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(&Session{HARRecording: true, StartedAt: &started, SessionName: "temp-1700000000000"}))

	s, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.HARRecording)
	assert.Equal(t, "temp-1700000000000", s.SessionName)
	assert.True(t, started.Equal(*s.StartedAt))
	assert.True(t, s.Ephemeral())
}

func TestFileStoreOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Save(&Session{HARRecording: true, SessionName: "first"}))
	require.NoError(t, store.Save(&Session{SessionName: "second"}))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", s.SessionName)
	assert.False(t, s.HARRecording, "old state is replaced, not merged")
}

func TestFileStoreFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(&Session{HARRecording: true, SessionName: "demo"}))

	data, err := os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"harRecording": true, "sessionName": "demo"}`, string(data))
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("not json"), 0600))

	_, err := NewFileStore(dir).Load()
	assert.ErrorContains(t, err, "corrupt session file")
}

func TestFileStoreClear(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Clear(), "clearing without a session is fine")
	require.NoError(t, store.Save(&Session{SessionName: "demo"}))
	require.NoError(t, store.Clear())

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(nil)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	in := &Session{SessionName: "explicit"}
	require.NoError(t, store.Save(in))
	in.SessionName = "mutated"

	s, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "explicit", s.SessionName, "store keeps its own copy")
	assert.False(t, s.Ephemeral())

	require.NoError(t, store.Clear())
	s, _ = store.Load()
	assert.Nil(t, s)
}
