// Package planner stores the personal planner: daily to-dos, one reflection
// per day, shared links and meeting notes.
package planner

import (
	"time"

	"github.com/cockroachdb/errors"
)

// DateLayout is the calendar day format used for keys.
const DateLayout = time.DateOnly

// Errors
var (
	ErrNotFound = errors.New("planner item not found")
	ErrInvalid  = errors.New("invalid planner input")
)

// Task is a to-do item on a given day.
type Task struct {
	ID        string
	Date      string
	Title     string
	Done      bool
	CreatedAt time.Time
}

// Link is a shared bookmark.
type Link struct {
	ID        string
	Title     string
	URL       string
	CreatedAt time.Time
}

// Note is a meeting note.
type Note struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day aggregates a day's tasks and reflection.
type Day struct {
	Date       string
	Tasks      []Task
	Reflection string
}

// Week holds seven days starting on Monday.
type Week struct {
	Start string
	Days  [7]Day
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	y, m, d := date.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, date.Location())
}

// ParseDate parses a YYYY-MM-DD day. An empty string means the day of now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalid, "date %q: %v", s, err)
	}
	return t, nil
}
