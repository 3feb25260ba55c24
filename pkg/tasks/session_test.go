package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
)

func TestBeginMissingTask(t *testing.T) {
	store := database.NewMemoryStore()

	session, err := Begin(store, 404)
	assert.Nil(t, session)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionEditsStayPendingUntilCommit(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "Pay rent", Deadline: database.DatePtr(2024, 6, 1)})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, session.TaskID())
	assert.False(t, session.Dirty())

	session.SetTitle("Pay rent (June)")
	session.SetContent("transfer")
	session.SetDeadline(database.DatePtr(2024, 6, 3))
	session.SetImageRef("/tmp/invoice.png")
	session.SetTitle("Pay rent (June)")
	assert.True(t, session.Dirty())

	stored, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", stored.Title)
	assert.Equal(t, "2024-06-01", stored.DeadlineKey())
	assert.Empty(t, stored.ImageRef)

	require.NoError(t, session.Commit(store))
	assert.True(t, session.Closed())

	stored, err = store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent (June)", stored.Title)
	assert.Equal(t, "transfer", stored.Content)
	assert.Equal(t, "2024-06-03", stored.DeadlineKey())
	assert.Equal(t, "/tmp/invoice.png", stored.ImageRef)
}

func TestSessionDiscardLeavesStoreUntouched(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "Buy milk", Content: "2L", Completed: true})

	before, err := store.GetTask(task.ID)
	require.NoError(t, err)

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	session.SetTitle("")
	session.SetContent("changed")
	session.SetDeadline(database.DatePtr(2025, 1, 1))
	session.SetImageRef("x.png")
	session.Discard()

	after, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	assert.ErrorIs(t, session.Commit(store), ErrSessionClosed)
	assert.ErrorIs(t, session.Delete(store), ErrSessionClosed)
}

func TestSessionCommitRejectsBlankTitle(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "Keep me"})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	session.SetTitle("   ")

	err = session.Commit(store)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, session.Closed())

	stored, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", stored.Title)

	session.SetTitle("Kept")
	require.NoError(t, session.Commit(store))
}

func TestSessionCommitKeepsCompletion(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "done", Completed: true})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	session.ClearDeadline()
	require.NoError(t, session.Commit(store))

	stored, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

func TestSessionDeadlineIsCivilDate(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "t"})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)

	picked := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)
	session.SetDeadline(&picked)
	picked = picked.AddDate(1, 0, 0)

	pending := session.Pending()
	require.NotNil(t, pending.Deadline)
	assert.Equal(t, database.Date(2024, 7, 4), *pending.Deadline)

	session.SetDeadline(nil)
	assert.Nil(t, session.Pending().Deadline)
}

func TestSessionDelete(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "gone"})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	require.NoError(t, session.Delete(store))
	assert.True(t, session.Closed())

	_, err = store.GetTask(task.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStorageFailureKeepsSessionOpen(t *testing.T) {
	store := newFlakyStore()
	task := mustCreate(t, store, database.Task{Title: "Draft"})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	session.SetTitle("Final")

	store.failUpdate = true
	err = session.Commit(store)
	assert.True(t, apperrors.IsStorage(err))
	assert.False(t, session.Closed())
	assert.Equal(t, "Final", session.Pending().Title)

	store.failDelete = true
	assert.True(t, apperrors.IsStorage(session.Delete(store)))
	assert.False(t, session.Closed())

	store.failUpdate = false
	require.NoError(t, session.Commit(store))
}

func TestSessionCommitOnVanishedTask(t *testing.T) {
	store := database.NewMemoryStore()
	task := mustCreate(t, store, database.Task{Title: "racy"})

	session, err := Begin(store, task.ID)
	require.NoError(t, err)
	require.NoError(t, store.DeleteTask(task.ID))

	assert.True(t, apperrors.IsNotFound(session.Commit(store)))
}
