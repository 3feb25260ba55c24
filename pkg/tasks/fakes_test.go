package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
)

var errBoom = errors.New("boom")

// flakyStore wraps a MemoryStore and fails the operations switched on
type flakyStore struct {
	*database.MemoryStore
	failCreate bool
	failGet    bool
	failUpdate bool
	failDelete bool
	failList   bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: database.NewMemoryStore()}
}

func (f *flakyStore) CreateTask(draft database.Task) (database.Task, error) {
	if f.failCreate {
		return database.Task{}, apperrors.NewStorageError("create task", errBoom)
	}
	return f.MemoryStore.CreateTask(draft)
}

func (f *flakyStore) GetTask(id int64) (database.Task, error) {
	if f.failGet {
		return database.Task{}, apperrors.NewStorageError("get task", errBoom)
	}
	return f.MemoryStore.GetTask(id)
}

func (f *flakyStore) UpdateTask(task database.Task) error {
	if f.failUpdate {
		return apperrors.NewStorageError("update task", errBoom)
	}
	return f.MemoryStore.UpdateTask(task)
}

func (f *flakyStore) DeleteTask(id int64) error {
	if f.failDelete {
		return apperrors.NewStorageError("delete task", errBoom)
	}
	return f.MemoryStore.DeleteTask(id)
}

func (f *flakyStore) ListAllTasks() ([]database.Task, error) {
	if f.failList {
		return nil, apperrors.NewStorageError("list tasks", errBoom)
	}
	return f.MemoryStore.ListAllTasks()
}

// mustCreate adds a task and applies completion, which CreateTask ignores
func mustCreate(t *testing.T, store TaskStore, task database.Task) database.Task {
	t.Helper()

	created, err := store.CreateTask(task)
	require.NoError(t, err)
	if task.Completed {
		created.Completed = true
		require.NoError(t, store.UpdateTask(created))
	}
	return created
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
