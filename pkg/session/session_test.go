package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManagerAt(filepath.Join(t.TempDir(), "session.json"))
}

func TestSessionSaveAndLoad(t *testing.T) {
	mgr := testManager(t)

	require.NoError(t, mgr.Save(&Session{
		SelectedAccountID: "acc-1",
		MediaTypeFilter:   "VIDEO",
	}))

	loaded, err := mgr.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "acc-1", loaded.SelectedAccountID)
	assert.Equal(t, "VIDEO", loaded.MediaTypeFilter)
	assert.Equal(t, 1, loaded.Version)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestSessionLoadMissingFile(t *testing.T) {
	mgr := testManager(t)

	loaded, err := mgr.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.False(t, mgr.Exists())
}

func TestSessionLoadCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	mgr := NewManagerAt(path)

	loaded, err := mgr.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionRecordSelection(t *testing.T) {
	mgr := testManager(t)

	require.NoError(t, mgr.RecordSelection("acc-7"))

	loaded, err := mgr.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "acc-7", loaded.SelectedAccountID)

	// a later refresh stamp keeps the selection
	require.NoError(t, mgr.RecordRefresh(time.Now()))
	loaded, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc-7", loaded.SelectedAccountID)
	assert.False(t, loaded.LastRefreshedAt.IsZero())
}

func TestSessionDelete(t *testing.T) {
	mgr := testManager(t)
	require.NoError(t, mgr.Save(&Session{SelectedAccountID: "acc-1"}))
	require.True(t, mgr.Exists())

	require.NoError(t, mgr.Delete())
	assert.False(t, mgr.Exists())

	// deleting again is fine
	require.NoError(t, mgr.Delete())
}

func TestSessionSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManagerAt(filepath.Join(dir, "session.json"))
	require.NoError(t, mgr.Save(&Session{SelectedAccountID: "acc-1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}
