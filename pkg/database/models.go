package database

import (
	"time"
)

// DateLayout is the storage and lookup format of a deadline
const DateLayout = "2006-01-02"

// Task represents a single todo record
type Task struct {
	ID        int64      `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Content   string     `json:"content" yaml:"content"`
	ImageRef  string     `json:"image_ref,omitempty" yaml:"image_ref,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Completed bool       `json:"completed" yaml:"completed"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}

// HasDeadline reports whether the task has a due date
func (t Task) HasDeadline() bool {
	return t.Deadline != nil
}

// HasImage reports whether the task has an attached image
func (t Task) HasImage() bool {
	return t.ImageRef != ""
}

// DeadlineKey returns the deadline as YYYY-MM-DD, or "" without one
func (t Task) DeadlineKey() string {
	if t.Deadline == nil {
		return ""
	}
	return DateKey(*t.Deadline)
}

// Clone returns a copy that shares no memory with t
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}

// DateKey formats the civil date of tm
func DateKey(tm time.Time) string {
	return tm.Format(DateLayout)
}

// Date returns the civil date y-m-d as midnight UTC
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date for optional deadlines
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// ParseDate parses a YYYY-MM-DD deadline
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Truncate normalizes tm to its civil date at midnight UTC
func Truncate(tm time.Time) time.Time {
	return Date(tm.Year(), tm.Month(), tm.Day())
}
