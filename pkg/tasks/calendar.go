package tasks

import (
	"fmt"
	"time"

	"todocal/pkg/database"
)

// DefaultTitleWidth is how many runes of a title a calendar cell shows
const DefaultTitleWidth = 4

// Cursor is the (year, month) shown by the calendar
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor of the month containing t
func CursorFor(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Advance moves the cursor by delta months, one wrapping step at a time
func (c Cursor) Advance(delta int) Cursor {
	for ; delta > 0; delta-- {
		c.Month++
		if c.Month > time.December {
			c.Month = time.January
			c.Year++
		}
	}
	for ; delta < 0; delta++ {
		c.Month--
		if c.Month < time.January {
			c.Month = time.December
			c.Year--
		}
	}
	return c
}

// AdvanceMonth is Cursor.Advance on a bare (year, month) pair
func AdvanceMonth(year int, month time.Month, delta int) (int, time.Month) {
	c := Cursor{Year: year, Month: month}.Advance(delta)
	return c.Year, c.Month
}

// DaysIn returns the number of days in the cursor's month
func (c Cursor) DaysIn() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingOffset is the number of placeholder cells before day 1 in a
// Monday-first week
func (c Cursor) LeadingOffset() int {
	first := time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// Cell is one day of the grid. Day is 0 for placeholder cells outside the
// month.
type Cell struct {
	Day    int
	Today  bool
	Titles []string
}

// IsPlaceholder reports whether the cell lies outside the month
func (c Cell) IsPlaceholder() bool {
	return c.Day == 0
}

// Week is a Monday..Sunday row
type Week [7]Cell

// Grid is a projected month
type Grid struct {
	Cursor Cursor
	Weeks  []Week
}

// Cell returns the cell of a day of the month, or false when out of range
func (g Grid) Cell(day int) (Cell, bool) {
	for _, week := range g.Weeks {
		for _, cell := range week {
			if cell.Day == day && day != 0 {
				return cell, true
			}
		}
	}
	return Cell{}, false
}

// Projector maps tasks onto a month grid
type Projector struct {
	TitleWidth int
	Now        func() time.Time
}

// Project builds the grid for cursor from a task snapshot
func (p Projector) Project(cursor Cursor, tasks []database.Task) Grid {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	width := p.TitleWidth
	if width <= 0 {
		width = DefaultTitleWidth
	}
	return project(cursor, tasks, now(), width)
}

// Project builds the grid with the default title width
func Project(cursor Cursor, tasks []database.Task, now time.Time) Grid {
	return project(cursor, tasks, now, DefaultTitleWidth)
}

func project(cursor Cursor, tasks []database.Task, now time.Time, width int) Grid {
	titlesByDate := make(map[string][]string)
	for _, task := range tasks {
		if !task.HasDeadline() {
			continue
		}
		key := task.DeadlineKey()
		titlesByDate[key] = append(titlesByDate[key], truncate(task.Title, width))
	}

	offset := cursor.LeadingOffset()
	days := cursor.DaysIn()
	rows := (days + offset + 6) / 7

	todayDay := 0
	if CursorFor(now) == cursor {
		todayDay = now.Day()
	}

	grid := Grid{Cursor: cursor, Weeks: make([]Week, rows)}
	for day := 1; day <= days; day++ {
		pos := offset + day - 1
		key := database.DateKey(database.Date(cursor.Year, cursor.Month, day))
		grid.Weeks[pos/7][pos%7] = Cell{
			Day:    day,
			Today:  day == todayDay,
			Titles: titlesByDate[key],
		}
	}

	return grid
}

func truncate(title string, width int) string {
	runes := []rune(title)
	if len(runes) <= width {
		return title
	}
	return string(runes[:width])
}
