package tasks

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/pkg/database"
)

func ids(tasks []database.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func TestOrderScenario(t *testing.T) {
	milk := database.Task{ID: 1, Title: "Buy milk"}
	rent := database.Task{ID: 2, Title: "Pay rent", Deadline: database.DatePtr(2024, 6, 1)}

	assert.Equal(t, []int64{2, 1}, ids(Order([]database.Task{milk, rent})))

	rent.Completed = true
	assert.Equal(t, []int64{1, 2}, ids(Order([]database.Task{milk, rent})))
}

func TestOrderKeys(t *testing.T) {
	input := []database.Task{
		{ID: 1, Title: "undated old"},
		{ID: 2, Title: "done dated", Completed: true, Deadline: database.DatePtr(2024, 1, 1)},
		{ID: 3, Title: "late", Deadline: database.DatePtr(2024, 5, 20)},
		{ID: 4, Title: "early", Deadline: database.DatePtr(2024, 5, 1)},
		{ID: 5, Title: "undated new"},
		{ID: 6, Title: "early twin", Deadline: database.DatePtr(2024, 5, 1)},
		{ID: 7, Title: "done undated", Completed: true},
		{ID: 8, Title: "next year", Deadline: database.DatePtr(2025, 1, 1)},
	}

	got := Order(input)
	assert.Equal(t, []int64{6, 4, 3, 8, 5, 1, 2, 7}, ids(got))

	// the input is left alone
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids(input))
}

func TestOrderIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	got := Order([]database.Task{
		{ID: 1, Deadline: &morning},
		{ID: 2, Deadline: &evening},
	})
	// same civil date, so the id tiebreak decides
	assert.Equal(t, []int64{2, 1}, ids(got))
}

func TestOrderEmpty(t *testing.T) {
	assert.Empty(t, Order(nil))
}

func TestOrderProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		n := rng.Intn(30)
		input := make([]database.Task, n)
		perm := rng.Perm(n)
		for i := range input {
			task := database.Task{ID: int64(perm[i] + 1), Completed: rng.Intn(2) == 0}
			if rng.Intn(3) > 0 {
				task.Deadline = database.DatePtr(2024, time.Month(1+rng.Intn(3)), 1+rng.Intn(5))
			}
			input[i] = task
		}

		got := Order(input)
		require.Len(t, got, n)

		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]

			require.False(t, prev.Completed && !cur.Completed, "incomplete tasks come first")
			if prev.Completed != cur.Completed {
				continue
			}
			require.False(t, !prev.HasDeadline() && cur.HasDeadline(), "dated tasks come first")
			if prev.HasDeadline() != cur.HasDeadline() {
				continue
			}
			if prev.HasDeadline() {
				require.LessOrEqual(t, prev.DeadlineKey(), cur.DeadlineKey())
				if prev.DeadlineKey() != cur.DeadlineKey() {
					continue
				}
			}
			require.Greater(t, prev.ID, cur.ID, "ties break by descending id")
		}

		// a second pass over a shuffled copy gives the same answer
		shuffled := make([]database.Task, n)
		copy(shuffled, input)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, ids(got), ids(Order(shuffled)))
	}
}
