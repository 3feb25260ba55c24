package commands

import (
	"fmt"
	"io"
	"strings"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
	"todocal/pkg/tasks"
	"todocal/pkg/utils"
)

// AddTask creates a task from the command line. dateStr is an optional
// YYYY-MM-DD deadline.
func AddTask(store tasks.TaskStore, out io.Writer, title, dateStr string) (database.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return database.Task{}, apperrors.NewValidationError("title", "must not be empty")
	}

	draft := database.Task{Title: title}
	if dateStr != "" {
		deadline, err := database.ParseDate(dateStr)
		if err != nil {
			return database.Task{}, apperrors.NewValidationError("date", fmt.Sprintf("%q is not YYYY-MM-DD", dateStr))
		}
		draft.Deadline = &deadline
	}

	task, err := store.CreateTask(draft)
	if err != nil {
		return database.Task{}, err
	}

	utils.Log("Added task %d from command line", task.ID)
	fmt.Fprintf(out, "Added task %d: %s\n", task.ID, task.Title)
	return task, nil
}
