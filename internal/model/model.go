package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the values in the order forms offer them.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts the canonical labels and the legacy Spanish labels
// (Baja, Media, Alta), ignoring case.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low", "baja":
		return PriorityLow, nil
	case "medium", "media":
		return PriorityMedium, nil
	case "high", "alta":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q", value)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for display: High first, Low last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Comment struct {
	ID        int64     `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Comments    []Comment  `json:"comments" yaml:"comments"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Deadline    *Date      `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Reminder    *time.Time `json:"reminder,omitempty" yaml:"reminder,omitempty"`
}

// UnmarshalJSON accepts reminders in RFC 3339 as well as the zone-less
// datetime-local shape, and never leaves Comments nil.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		Reminder *string `json:"reminder,omitempty"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.Reminder = nil
	if aux.Reminder != nil && strings.TrimSpace(*aux.Reminder) != "" {
		reminder, err := ParseReminder(*aux.Reminder, time.Local)
		if err != nil {
			return err
		}
		t.Reminder = &reminder
	}
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	return nil
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	out := t
	out.Comments = make([]Comment, len(t.Comments))
	copy(out.Comments, t.Comments)
	if t.Deadline != nil {
		deadline := *t.Deadline
		out.Deadline = &deadline
	}
	if t.Reminder != nil {
		reminder := *t.Reminder
		out.Reminder = &reminder
	}
	return out
}

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// StatusFilters lists the filter values in cycling order.
var StatusFilters = []StatusFilter{StatusAll, StatusPending, StatusCompleted}

func ParseStatusFilter(value string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status filter %q", value)
}

func (f StatusFilter) Matches(completed bool) bool {
	switch f {
	case StatusPending:
		return !completed
	case StatusCompleted:
		return completed
	}
	return true
}

// PriorityFilter is either PriorityAll or one of the priority labels.
type PriorityFilter string

const PriorityAll PriorityFilter = "all"

func ParsePriorityFilter(value string) (PriorityFilter, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, string(PriorityAll)) {
		return PriorityAll, nil
	}
	priority, err := ParsePriority(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid priority filter %q", value)
	}
	return PriorityFilter(priority), nil
}

func (f PriorityFilter) Matches(priority Priority) bool {
	if f == "" || f == PriorityAll {
		return true
	}
	return Priority(f) == priority
}
