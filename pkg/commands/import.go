package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
	"todocal/pkg/tasks"
	"todocal/pkg/utils"
)

var (
	isoHeader = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}):$`)
	dmyHeader = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4}):$`)
)

// ParseText reads the txt export format. Task lines look like
// "- [x] title" under a "YYYY-MM-DD:", "DD.MM.YYYY:" or "someday:" header.
func ParseText(r io.Reader) ([]database.Task, error) {
	var drafts []database.Task
	var current *time.Time

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.EqualFold(line, SomedayHeader) {
			current = nil
			continue
		}
		if header, ok, err := parseHeader(line); ok {
			if err != nil {
				return nil, apperrors.NewValidationError("date", fmt.Sprintf("line %d: %v", lineNo, err))
			}
			current = &header
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, "- "))

		completed := false
		switch {
		case strings.HasPrefix(text, "[x]"), strings.HasPrefix(text, "[X]"):
			completed = true
			text = strings.TrimSpace(text[3:])
		case strings.HasPrefix(text, "[ ]"):
			text = strings.TrimSpace(text[3:])
		}
		if text == "" {
			continue
		}

		draft := database.Task{Title: text, Completed: completed}
		if current != nil {
			d := *current
			draft.Deadline = &d
		}
		drafts = append(drafts, draft)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return drafts, nil
}

func parseHeader(line string) (time.Time, bool, error) {
	if m := isoHeader.FindStringSubmatch(line); m != nil {
		date, err := database.ParseDate(m[1])
		return date, true, err
	}
	if m := dmyHeader.FindStringSubmatch(line); m != nil {
		date, err := database.ParseDate(m[3] + "-" + m[2] + "-" + m[1])
		return date, true, err
	}
	return time.Time{}, false, nil
}

// Import stores drafts as new tasks, keeping their completion. It returns
// how many were added before any failure.
func Import(store tasks.TaskStore, drafts []database.Task) (int, error) {
	added := 0
	for _, draft := range drafts {
		title := strings.TrimSpace(draft.Title)
		if title == "" {
			continue
		}
		draft.Title = title
		if draft.Deadline != nil {
			d := database.Truncate(*draft.Deadline)
			draft.Deadline = &d
		}

		task, err := store.CreateTask(draft)
		if err != nil {
			return added, err
		}
		if draft.Completed {
			task.Completed = true
			if err := store.UpdateTask(task); err != nil {
				// no half-imported tasks
				if derr := store.DeleteTask(task.ID); derr != nil {
					utils.Log("Could not remove task %d after failed import: %v", task.ID, derr)
				}
				return added, err
			}
		}
		added++
	}
	return added, nil
}

// ImportFile reads filename by extension: .json and .yaml/.yml hold an
// export, anything else is the txt format
func ImportFile(store tasks.TaskStore, out io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	defer f.Close()

	var drafts []database.Task
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.NewDecoder(f).Decode(&drafts)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&drafts)
		if err == io.EOF {
			err = nil
		}
	default:
		drafts, err = ParseText(f)
	}
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", filename, err)
	}

	added, err := Import(store, drafts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully imported %d task(s) from %s\n", added, filename)
	return nil
}
