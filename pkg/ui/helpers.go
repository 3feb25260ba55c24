package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"todocal/pkg/tasks"
)

const (
	calendarCellWidth = 10
	calendarMinLines  = 3
)

// refreshTable copies the controller's Home rows into the table
func (m *Model) refreshTable() {
	rows := m.ctrl.Rows()
	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, formatRow(row))
	}
	m.table.SetRows(tableRows)

	if m.table.Cursor() >= len(tableRows) {
		m.table.SetCursor(max(len(tableRows)-1, 0))
	}
}

// selectedRow returns the Home row under the table cursor
func (m Model) selectedRow() (tasks.Row, bool) {
	rows := m.ctrl.Rows()
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return tasks.Row{}, false
	}
	return rows[i], true
}

func formatRow(row tasks.Row) table.Row {
	status := "[ ]"
	if row.Task.Completed {
		status = "[x]"
	}

	due := "no deadline"
	if row.Task.HasDeadline() {
		due = "due " + row.Task.Deadline.Format("01-02")
		if row.Overdue {
			due += " late"
		}
	}

	image := ""
	if row.Task.HasImage() {
		image = "img"
	}

	return table.Row{status, row.Task.Title, due, image}
}

// renderCalendar draws the projected month as a grid of cells
func (m Model) renderCalendar() string {
	var sb strings.Builder
	grid := m.ctrl.Grid()

	first := grid.Cursor
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(m.styles.AccentColor)).
		Padding(0, 1).
		Render(fmt.Sprintf(" %s %d ", first.Month, first.Year))
	sb.WriteString(header)
	sb.WriteString("\n\n")

	cell := lipgloss.NewStyle().
		Width(calendarCellWidth).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.styles.BorderColor))

	weekdays := make([]string, 0, 7)
	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		weekdays = append(weekdays, lipgloss.NewStyle().
			Width(calendarCellWidth+2).
			Align(lipgloss.Center).
			Bold(true).
			Render(day))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, weekdays...))
	sb.WriteString("\n")

	weeks := make([]string, 0, len(grid.Weeks))
	for _, week := range grid.Weeks {
		// every cell in a week is as tall as its busiest day
		lines := calendarMinLines
		for _, c := range week {
			lines = max(lines, len(c.Titles))
		}
		row := cell.Height(lines + 1)

		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, row.Render(m.renderCell(c)))
		}
		weeks = append(weeks, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, weeks...))

	return sb.String()
}

func (m Model) renderCell(c tasks.Cell) string {
	if c.IsPlaceholder() {
		return ""
	}

	day := lipgloss.NewStyle().Bold(true)
	if c.Today {
		day = day.
			Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
			Background(lipgloss.Color(m.styles.TodayColor))
	}
	chip := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ChipColor))

	lines := []string{day.Render(fmt.Sprintf("%2d", c.Day))}
	for _, title := range c.Titles {
		lines = append(lines, chip.Render("• "+title))
	}
	return strings.Join(lines, "\n")
}
