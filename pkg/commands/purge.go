package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
	"todocal/pkg/tasks"
	"todocal/pkg/utils"
)

// PurgeFilter selects the tasks a purge deletes. The zero value matches
// every task.
type PurgeFilter struct {
	Done   bool
	Undone bool
	// Date is a YYYY-MM-DD deadline
	Date string
}

func (f PurgeFilter) validate() error {
	if f.Done && f.Undone {
		return apperrors.NewValidationError("filter", "--done and --undone are exclusive")
	}
	if f.Date != "" {
		if _, err := database.ParseDate(f.Date); err != nil {
			return apperrors.NewValidationError("date", fmt.Sprintf("%q is not YYYY-MM-DD", f.Date))
		}
	}
	return nil
}

func (f PurgeFilter) matches(task database.Task) bool {
	if f.Done && !task.Completed {
		return false
	}
	if f.Undone && task.Completed {
		return false
	}
	if f.Date != "" && task.DeadlineKey() != f.Date {
		return false
	}
	return true
}

// Purge deletes the tasks matching filter. Unless skipConfirm is set it
// asks on out and reads the answer from in.
func Purge(store tasks.TaskStore, in io.Reader, out io.Writer, filter PurgeFilter, skipConfirm bool) (int, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}

	items, err := store.ListAllTasks()
	if err != nil {
		return 0, err
	}

	var doomed []database.Task
	for _, task := range items {
		if filter.matches(task) {
			doomed = append(doomed, task)
		}
	}
	if len(doomed) == 0 {
		fmt.Fprintln(out, "No matching tasks.")
		return 0, nil
	}

	if !skipConfirm {
		fmt.Fprintf(out, "Are you sure you want to delete %d task(s)? (y/N): ", len(doomed))
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Operation cancelled.")
			return 0, nil
		}
	}

	deleted := 0
	for _, task := range doomed {
		if err := store.DeleteTask(task.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	utils.Log("Purged %d task(s)", deleted)
	fmt.Fprintf(out, "Successfully deleted %d task(s)\n", deleted)
	return deleted, nil
}
