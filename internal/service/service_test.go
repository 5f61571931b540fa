package service

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/repository"
)

func newTestStore(t *testing.T) *repository.TaskStore {
	t.Helper()
	store, err := repository.NewTaskStore(repository.NewFileBackend(afero.NewMemMapFs(), "/tasks.json"))
	require.NoError(t, err)
	return store
}

func seed(t *testing.T, store *repository.TaskStore, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := store.Add(title, "", "", "", "")
		require.NoError(t, err)
	}
}
