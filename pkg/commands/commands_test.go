package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
)

// seedStore holds D (05-01), B (06-01), C (06-01, done) and A (undated)
func seedStore(t *testing.T) *database.MemoryStore {
	t.Helper()
	store := database.NewMemoryStore()
	_, err := Import(store, []database.Task{
		{Title: "A"},
		{Title: "B", Deadline: database.DatePtr(2024, 6, 1)},
		{Title: "C", Deadline: database.DatePtr(2024, 6, 1), Completed: true},
		{Title: "D", Deadline: database.DatePtr(2024, 5, 1)},
	})
	require.NoError(t, err)
	return store
}

type summary struct {
	Title     string
	Deadline  string
	Completed bool
}

func summarize(t *testing.T, store *database.MemoryStore) []summary {
	t.Helper()
	items, err := store.ListAllTasks()
	require.NoError(t, err)
	out := make([]summary, 0, len(items))
	for _, item := range items {
		out = append(out, summary{item.Title, item.DeadlineKey(), item.Completed})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func TestAddTask(t *testing.T) {
	store := database.NewMemoryStore()
	var out bytes.Buffer

	_, err := AddTask(store, &out, "   ", "")
	assert.True(t, apperrors.IsValidation(err))

	_, err = AddTask(store, &out, "Pay rent", "06/01/2024")
	assert.True(t, apperrors.IsValidation(err))

	task, err := AddTask(store, &out, "  Pay rent ", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", task.Title)
	assert.Equal(t, "2024-06-01", task.DeadlineKey())
	assert.False(t, task.Completed)
	assert.Contains(t, out.String(), "Added task 1: Pay rent")

	plain, err := AddTask(store, &out, "Buy milk", "")
	require.NoError(t, err)
	assert.Nil(t, plain.Deadline)
}

func TestExportText(t *testing.T) {
	store := seedStore(t)
	var buf bytes.Buffer

	n, err := Export(store, &buf, FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, `2024-05-01:
- [ ] D

2024-06-01:
- [ ] B
- [x] C

someday:
- [ ] A
`, buf.String())
}

func TestExportJSONAndYAMLInDisplayOrder(t *testing.T) {
	store := seedStore(t)

	var jsonBuf bytes.Buffer
	_, err := Export(store, &jsonBuf, FormatJSON)
	require.NoError(t, err)
	var fromJSON []database.Task
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))

	var yamlBuf bytes.Buffer
	_, err = Export(store, &yamlBuf, FormatYAML)
	require.NoError(t, err)
	var fromYAML []database.Task
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))

	for _, got := range [][]database.Task{fromJSON, fromYAML} {
		var order []string
		for _, task := range got {
			order = append(order, task.Title)
		}
		assert.Equal(t, []string{"D", "B", "A", "C"}, order)
		assert.Equal(t, "2024-05-01", got[0].DeadlineKey())
		assert.True(t, got[3].Completed)
	}
}

func TestExportEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	n, err := Export(database.NewMemoryStore(), &buf, FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestExportUnknownType(t *testing.T) {
	_, err := Export(database.NewMemoryStore(), &bytes.Buffer{}, "csv")
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseText(t *testing.T) {
	input := `
01.02.2024:
- [X] paid
- [ ] unpaid
  - plain line
random note

someday:
- [ ]
- dream
2024-03-04:
- [x] done`

	drafts, err := ParseText(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, drafts, 5)

	assert.Equal(t, "paid", drafts[0].Title)
	assert.True(t, drafts[0].Completed)
	assert.Equal(t, "2024-02-01", drafts[0].DeadlineKey())

	assert.Equal(t, "unpaid", drafts[1].Title)
	assert.False(t, drafts[1].Completed)

	assert.Equal(t, "plain line", drafts[2].Title)
	assert.Equal(t, "2024-02-01", drafts[2].DeadlineKey())

	assert.Equal(t, "dream", drafts[3].Title)
	assert.Nil(t, drafts[3].Deadline)

	assert.Equal(t, "2024-03-04", drafts[4].DeadlineKey())
	assert.True(t, drafts[4].Completed)

	// tasks under one header never share a deadline pointer
	assert.NotSame(t, drafts[0].Deadline, drafts[1].Deadline)
}

func TestParseTextRejectsImpossibleDate(t *testing.T) {
	_, err := ParseText(strings.NewReader("2024-13-40:\n- x\n"))
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "line 1")
}

// failingUpdates rejects every UpdateTask
type failingUpdates struct {
	*database.MemoryStore
}

func (f failingUpdates) UpdateTask(database.Task) error {
	return apperrors.NewStorageError("update task", errors.New("disk full"))
}

func TestImportRemovesTaskWhenCompletionFails(t *testing.T) {
	store := failingUpdates{database.NewMemoryStore()}

	added, err := Import(store, []database.Task{
		{Title: "open"},
		{Title: "finished", Completed: true},
		{Title: "never reached"},
	})
	assert.True(t, apperrors.IsStorage(err))
	assert.Equal(t, 1, added)

	items, err := store.ListAllTasks()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "open", items[0].Title)
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{FormatTXT, FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			source := seedStore(t)
			file := filepath.Join(t.TempDir(), "nested", "tasks."+format)
			var out bytes.Buffer

			require.NoError(t, ExportFile(source, &out, file, format))
			assert.Contains(t, out.String(), "exported 4 task(s)")

			target := database.NewMemoryStore()
			out.Reset()
			require.NoError(t, ImportFile(target, &out, file))
			assert.Contains(t, out.String(), "imported 4 task(s)")

			assert.Equal(t, summarize(t, source), summarize(t, target))
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	err := ImportFile(database.NewMemoryStore(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestPurge(t *testing.T) {
	tests := []struct {
		name   string
		filter PurgeFilter
		left   []string
	}{
		{"everything", PurgeFilter{}, nil},
		{"done only", PurgeFilter{Done: true}, []string{"A", "B", "D"}},
		{"undone only", PurgeFilter{Undone: true}, []string{"C"}},
		{"by date", PurgeFilter{Date: "2024-06-01"}, []string{"A", "D"}},
		{"undone by date", PurgeFilter{Undone: true, Date: "2024-06-01"}, []string{"A", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedStore(t)
			_, err := Purge(store, strings.NewReader(""), &bytes.Buffer{}, tt.filter, true)
			require.NoError(t, err)

			var left []string
			for _, s := range summarize(t, store) {
				left = append(left, s.Title)
			}
			assert.Equal(t, tt.left, left)
		})
	}
}

func TestPurgeConfirmation(t *testing.T) {
	store := seedStore(t)
	var out bytes.Buffer

	n, err := Purge(store, strings.NewReader("n\n"), &out, PurgeFilter{Done: true}, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "delete 1 task(s)?")
	assert.Contains(t, out.String(), "cancelled")
	assert.Len(t, summarize(t, store), 4)

	out.Reset()
	n, err = Purge(store, strings.NewReader("YES\n"), &out, PurgeFilter{Done: true}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, summarize(t, store), 3)

	out.Reset()
	n, err = Purge(store, strings.NewReader("y\n"), &out, PurgeFilter{Done: true}, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "No matching tasks.")
}

func TestPurgeRejectsBadFilters(t *testing.T) {
	store := seedStore(t)

	_, err := Purge(store, strings.NewReader(""), &bytes.Buffer{}, PurgeFilter{Done: true, Undone: true}, true)
	assert.True(t, apperrors.IsValidation(err))

	_, err = Purge(store, strings.NewReader(""), &bytes.Buffer{}, PurgeFilter{Date: "tomorrow"}, true)
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, summarize(t, store), 4)
}
