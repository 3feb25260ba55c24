// Package tasks holds the view-state and task-derivation engine: display
// ordering, calendar projection, edit sessions and the screen controller.
package tasks

import (
	"todocal/pkg/database"
)

// TaskStore is what the engine needs from persistence.
//
// CreateTask assigns ID and CreatedAt and starts the task uncompleted.
// UpdateTask overwrites title, content, image, deadline and completion and
// reports NotFound for a missing id. DeleteTask of a missing id is not an
// error. ListAllTasks makes no ordering promise.
type TaskStore interface {
	CreateTask(draft database.Task) (database.Task, error)
	GetTask(id int64) (database.Task, error)
	UpdateTask(task database.Task) error
	DeleteTask(id int64) error
	ListAllTasks() ([]database.Task, error)
}
