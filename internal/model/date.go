package model

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var reminderLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return DateOf(parsed), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(days int) Date {
	return NewDate(d.Year, d.Month, d.Day+days)
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.In(time.UTC).Sub(d.In(time.UTC)).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.DaysUntil(other) > 0
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseReminder parses RFC 3339 timestamps, or a zone-less date and time
// (as produced by datetime-local inputs) interpreted in loc.
func ParseReminder(value string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range reminderLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reminder %q: expected YYYY-MM-DDTHH:MM or RFC 3339", value)
}

type DeadlineStatus int

const (
	DeadlineNone DeadlineStatus = iota
	DeadlineScheduled
	DeadlineDueTomorrow
	DeadlineDueToday
	DeadlineOverdue
)

func (s DeadlineStatus) String() string {
	switch s {
	case DeadlineScheduled:
		return "scheduled"
	case DeadlineDueTomorrow:
		return "due_tomorrow"
	case DeadlineDueToday:
		return "due_today"
	case DeadlineOverdue:
		return "overdue"
	}
	return "none"
}

// Label is the short badge shown next to a deadline; empty when the date
// speaks for itself.
func (s DeadlineStatus) Label() string {
	switch s {
	case DeadlineDueTomorrow:
		return "Due tomorrow"
	case DeadlineDueToday:
		return "Due today"
	case DeadlineOverdue:
		return "Overdue"
	}
	return ""
}

// ClassifyDeadline compares a deadline against the calendar date of now in
// now's location. Completed tasks are never overdue or due.
func ClassifyDeadline(deadline *Date, completed bool, now time.Time) DeadlineStatus {
	if deadline == nil || deadline.IsZero() {
		return DeadlineNone
	}
	if completed {
		return DeadlineScheduled
	}

	switch days := DateOf(now).DaysUntil(*deadline); {
	case days < 0:
		return DeadlineOverdue
	case days == 0:
		return DeadlineDueToday
	case days == 1:
		return DeadlineDueTomorrow
	}
	return DeadlineScheduled
}

// FormatDeadline renders a deadline with its status label, e.g.
// "Overdue on 12 Jan 2026".
func FormatDeadline(deadline Date, status DeadlineStatus) string {
	formatted := deadline.In(time.UTC).Format("2 Jan 2006")
	if label := status.Label(); label != "" {
		return label + " on " + formatted
	}
	return formatted
}
