package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "todocal/pkg/errors"
	"todocal/pkg/utils"
)

// Store persists tasks in a SQL database
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewStore wraps an open connection whose schema is already in place
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver, now: time.Now}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const taskColumns = "id, title, content, image_ref, deadline, completed, created_at"

// CreateTask inserts a new task and returns it with its id and creation time
func (s *Store) CreateTask(draft Task) (Task, error) {
	task := draft.Clone()
	task.Completed = false
	task.CreatedAt = s.now().UTC()

	var id int64
	err := s.db.QueryRow(
		s.rebind(`INSERT INTO tasks (title, content, image_ref, deadline, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		task.Title,
		task.Content,
		nullString(task.ImageRef),
		nullString(task.DeadlineKey()),
		task.Completed,
		task.CreatedAt.Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return Task{}, apperrors.NewStorageError("create task", err)
	}

	task.ID = id
	utils.Log("Added task: %d", task.ID)
	return task, nil
}

// GetTask retrieves a single task by id
func (s *Store) GetTask(id int64) (Task, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, apperrors.NewNotFoundError("task", id)
	}
	if err != nil {
		return Task{}, apperrors.NewStorageError("get task", err)
	}
	return task, nil
}

// UpdateTask overwrites the mutable fields of an existing task
func (s *Store) UpdateTask(task Task) error {
	result, err := s.db.Exec(
		s.rebind(`UPDATE tasks SET title = ?, content = ?, image_ref = ?, deadline = ?, completed = ?
		 WHERE id = ?`),
		task.Title,
		task.Content,
		nullString(task.ImageRef),
		nullString(task.DeadlineKey()),
		task.Completed,
		task.ID,
	)
	if err != nil {
		return apperrors.NewStorageError("update task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("update task", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("task", task.ID)
	}

	utils.Log("Updated task: %d", task.ID)
	return nil
}

// DeleteTask removes a task from the database
func (s *Store) DeleteTask(id int64) error {
	if _, err := s.db.Exec(s.rebind("DELETE FROM tasks WHERE id = ?"), id); err != nil {
		return apperrors.NewStorageError("delete task", err)
	}
	utils.Log("Deleted task: %d", id)
	return nil
}

// ListAllTasks returns every task in no particular order
func (s *Store) ListAllTasks() ([]Task, error) {
	rows, err := s.db.Query("SELECT " + taskColumns + " FROM tasks")
	if err != nil {
		return nil, apperrors.NewStorageError("list tasks", err)
	}
	defer rows.Close()

	var items []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("list tasks", err)
		}
		items = append(items, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list tasks", err)
	}

	utils.Log("Loaded %d tasks from database", len(items))
	return items, nil
}

// CountTasks returns the number of stored tasks
func (s *Store) CountTasks() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return 0, apperrors.NewStorageError("count tasks", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (Task, error) {
	var (
		task      Task
		imageRef  sql.NullString
		deadline  sql.NullString
		createdAt string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Content,
		&imageRef,
		&deadline,
		&task.Completed,
		&createdAt,
	); err != nil {
		return Task{}, err
	}

	if imageRef.Valid {
		task.ImageRef = imageRef.String
	}

	if deadline.Valid && deadline.String != "" {
		d, err := ParseDate(deadline.String)
		if err != nil {
			return Task{}, fmt.Errorf("task %d: bad deadline %q: %w", task.ID, deadline.String, err)
		}
		task.Deadline = &d
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Task{}, fmt.Errorf("task %d: bad created_at %q: %w", task.ID, createdAt, err)
	}
	task.CreatedAt = created

	return task, nil
}

// rebind converts ? placeholders to $n for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
