package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/model"
)

func openSQLiteStore(t *testing.T, path string) *TaskStore {
	t.Helper()
	store, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	store := openSQLiteStore(t, path)
	assert.Empty(t, store.List())

	_, err := store.Add("A", "d", "Work", "2024-01-01", "high")
	require.NoError(t, err)
	_, err = store.Add("B", "d", "Home", "2024-02-01", "low")
	require.NoError(t, err)
	require.NoError(t, store.MarkDone(2))
	require.NoError(t, store.Delete(1))
	_, err = store.Add("C", "d", "Home", "2024-03-01", "medium")
	require.NoError(t, err)
	want := store.List()
	require.NoError(t, store.Close())

	reopened := openSQLiteStore(t, path)
	assert.Equal(t, want, reopened.List())
	assert.Equal(t, 2, want[0].ID)
	assert.Equal(t, 2, want[1].ID)
	assert.Equal(t, model.StatusDone, want[0].Status)
}

func TestSQLiteBackend_MissingFileCreatedOnFirstSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	store := openSQLiteStore(t, path)
	assert.Empty(t, store.List())
	require.NoError(t, store.Close())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the file")

	store = openSQLiteStore(t, path)
	_, err = store.Add("A", "", "", "", "")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSQLiteBackend_DeleteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	store := openSQLiteStore(t, path)
	_, err := store.Add("A", "", "", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Delete(1))
	require.NoError(t, store.Close())

	assert.Empty(t, openSQLiteStore(t, path).List())
}

func TestSQLiteBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a sqlite database, just some text padding it out"), 0o644))

	_, err := Open(DriverSQLite, path)

	var corrupt *CorruptStoreError
	require.True(t, errors.As(err, &corrupt), "got %v", err)
	assert.Equal(t, path, corrupt.Path)
}
