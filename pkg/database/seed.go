package database

import (
	"time"

	"todocal/pkg/utils"
)

// Seeder is the part of a store needed to seed it
type Seeder interface {
	CountTasks() (int, error)
	CreateTask(draft Task) (Task, error)
}

// SeedWelcome adds a welcome task due today when the store is empty.
// It reports whether a task was added.
func SeedWelcome(store Seeder, now time.Time) (bool, error) {
	count, err := store.CountTasks()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	today := Truncate(now)
	if _, err := store.CreateTask(Task{
		Title:    "Welcome to todocal",
		Content:  "This is a sample task. Open it to edit, or delete it.",
		Deadline: &today,
	}); err != nil {
		return false, err
	}

	utils.Log("Seeded welcome task")
	return true, nil
}
