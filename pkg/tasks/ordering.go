package tasks

import (
	"sort"

	"todocal/pkg/database"
)

// Order returns tasks in display order without modifying the input:
// unfinished before finished, dated before undated, earlier deadline
// first, then newer (higher id) first.
func Order(tasks []database.Task) []database.Task {
	sorted := make([]database.Task, len(tasks))
	copy(sorted, tasks)

	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

func less(a, b database.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if a.HasDeadline() != b.HasDeadline() {
		return a.HasDeadline()
	}
	if a.HasDeadline() {
		// YYYY-MM-DD keys sort lexically in date order
		if ka, kb := a.DeadlineKey(), b.DeadlineKey(); ka != kb {
			return ka < kb
		}
	}
	return a.ID > b.ID
}
