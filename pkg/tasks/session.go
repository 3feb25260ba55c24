package tasks

import (
	"errors"
	"strings"
	"time"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
)

// ErrSessionClosed is returned by operations on a committed, deleted or
// discarded session
var ErrSessionClosed = errors.New("edit session is closed")

// EditSession holds unsaved edits to one task. The stored task is only
// touched by Commit or Delete.
type EditSession struct {
	snapshot database.Task
	pending  database.Task
	closed   bool
}

// Begin starts a session from the current stored state of task id
func Begin(store TaskStore, id int64) (*EditSession, error) {
	task, err := store.GetTask(id)
	if err != nil {
		return nil, err
	}
	return &EditSession{
		snapshot: task.Clone(),
		pending:  task.Clone(),
	}, nil
}

func (s *EditSession) TaskID() int64 {
	return s.snapshot.ID
}

// Snapshot returns the task as it was when the session began
func (s *EditSession) Snapshot() database.Task {
	return s.snapshot.Clone()
}

// Pending returns the task as Commit would write it
func (s *EditSession) Pending() database.Task {
	return s.pending.Clone()
}

func (s *EditSession) Closed() bool {
	return s.closed
}

func (s *EditSession) SetTitle(title string) {
	s.pending.Title = title
}

func (s *EditSession) SetContent(content string) {
	s.pending.Content = content
}

// SetDeadline sets the pending due date; nil clears it
func (s *EditSession) SetDeadline(deadline *time.Time) {
	if deadline == nil {
		s.pending.Deadline = nil
		return
	}
	d := database.Truncate(*deadline)
	s.pending.Deadline = &d
}

func (s *EditSession) ClearDeadline() {
	s.pending.Deadline = nil
}

// SetImageRef sets the pending attachment; "" removes it
func (s *EditSession) SetImageRef(ref string) {
	s.pending.ImageRef = ref
}

// Dirty reports whether any pending field differs from the snapshot
func (s *EditSession) Dirty() bool {
	return s.pending.Title != s.snapshot.Title ||
		s.pending.Content != s.snapshot.Content ||
		s.pending.ImageRef != s.snapshot.ImageRef ||
		s.pending.DeadlineKey() != s.snapshot.DeadlineKey()
}

// Commit writes the pending fields to the store and closes the session.
// A blank title is rejected and the session stays open, as do storage
// failures.
func (s *EditSession) Commit(store TaskStore) error {
	if s.closed {
		return ErrSessionClosed
	}
	if strings.TrimSpace(s.pending.Title) == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}

	updated := s.snapshot.Clone()
	updated.Title = s.pending.Title
	updated.Content = s.pending.Content
	updated.ImageRef = s.pending.ImageRef
	updated.Deadline = s.pending.Clone().Deadline

	if err := store.UpdateTask(updated); err != nil {
		return err
	}

	s.snapshot = updated
	s.closed = true
	return nil
}

// Delete removes the task from the store and closes the session
func (s *EditSession) Delete(store TaskStore) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := store.DeleteTask(s.snapshot.ID); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Discard abandons the pending edits
func (s *EditSession) Discard() {
	s.closed = true
}
