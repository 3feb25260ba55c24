package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
	"todocal/pkg/tasks"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTXT  = "txt"
)

// SomedayHeader heads undated tasks in the txt format
const SomedayHeader = "someday:"

// Lister is the part of a store needed to export it
type Lister interface {
	ListAllTasks() ([]database.Task, error)
}

// Export writes every task in display order to w
func Export(store Lister, w io.Writer, format string) (int, error) {
	items, err := store.ListAllTasks()
	if err != nil {
		return 0, err
	}
	ordered := tasks.Order(items)
	if ordered == nil {
		ordered = []database.Task{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(ordered)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(ordered)
		if err == nil {
			err = enc.Close()
		}
	case FormatTXT:
		_, err = io.WriteString(w, FormatText(ordered))
	default:
		return 0, apperrors.NewValidationError("type", fmt.Sprintf("unknown export type %q", format))
	}
	if err != nil {
		return 0, err
	}
	return len(ordered), nil
}

// ExportFile writes the export to filename, creating its directory
func ExportFile(store Lister, out io.Writer, filename, format string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	n, err := Export(store, f, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filename)
		return err
	}

	fmt.Fprintf(out, "Successfully exported %d task(s) to %s\n", n, filename)
	return nil
}

// FormatText groups ordered tasks under their deadline. Groups appear in
// the order their first task does.
func FormatText(ordered []database.Task) string {
	var headers []string
	groups := map[string][]string{}

	for _, task := range ordered {
		header := SomedayHeader
		if task.HasDeadline() {
			header = task.DeadlineKey() + ":"
		}
		if _, seen := groups[header]; !seen {
			headers = append(headers, header)
		}

		status := " "
		if task.Completed {
			status = "x"
		}
		groups[header] = append(groups[header], fmt.Sprintf("- [%s] %s", status, task.Title))
	}

	var sb strings.Builder
	for i, header := range headers {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(header)
		sb.WriteString("\n")
		for _, line := range groups[header] {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
