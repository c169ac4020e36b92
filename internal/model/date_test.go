package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestClassifyDeadline(t *testing.T) {
	now := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)
	today := DateOf(now)

	tests := []struct {
		name      string
		deadline  *Date
		completed bool
		want      DeadlineStatus
	}{
		{"no deadline", nil, false, DeadlineNone},
		{"yesterday", datePtr(today.AddDays(-1)), false, DeadlineOverdue},
		{"today", datePtr(today), false, DeadlineDueToday},
		{"tomorrow", datePtr(today.AddDays(1)), false, DeadlineDueTomorrow},
		{"next week", datePtr(today.AddDays(7)), false, DeadlineScheduled},
		{"past but completed", datePtr(today.AddDays(-3)), true, DeadlineScheduled},
		{"today but completed", datePtr(today), true, DeadlineScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDeadline(tt.deadline, tt.completed, now); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyDeadlineUsesCalendarDateOfNowsZone(t *testing.T) {
	deadline := NewDate(2026, time.October, 17)
	// 23:30 UTC on the 16th is already the 17th in UTC+2.
	zone := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC).In(zone)

	if got := ClassifyDeadline(&deadline, false, now); got != DeadlineDueToday {
		t.Fatalf("expected due today, got %s", got)
	}
}

func TestDateArithmeticAcrossMonths(t *testing.T) {
	start := NewDate(2026, time.January, 30)
	if got := start.AddDays(3); got != NewDate(2026, time.February, 2) {
		t.Fatalf("expected 2026-02-02, got %s", got)
	}
	if got := start.DaysUntil(NewDate(2026, time.March, 1)); got != 30 {
		t.Fatalf("expected 30 days, got %d", got)
	}
	if !start.Before(start.AddDays(1)) || start.Before(start) {
		t.Fatalf("unexpected Before result")
	}
}

func TestDateJSON(t *testing.T) {
	date := NewDate(2026, time.July, 4)
	data, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-07-04"` {
		t.Fatalf("expected \"2026-07-04\", got %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != date {
		t.Fatalf("expected %s, got %s", date, decoded)
	}

	if err := json.Unmarshal([]byte(`"04/07/2026"`), &decoded); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestParseReminder(t *testing.T) {
	utc, err := ParseReminder("2026-10-16T08:00:00Z", time.Local)
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if !utc.Equal(time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected rfc3339 value %v", utc)
	}

	zone := time.FixedZone("test", -3*60*60)
	local, err := ParseReminder("2026-10-16T08:00", zone)
	if err != nil {
		t.Fatalf("parse local: %v", err)
	}
	if !local.Equal(time.Date(2026, time.October, 16, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected local value %v", local)
	}

	if _, err := ParseReminder("tomorrow", zone); err == nil {
		t.Fatalf("expected error for free-form reminder")
	}
}

func TestFormatDeadline(t *testing.T) {
	deadline := NewDate(2026, time.January, 12)
	if got := FormatDeadline(deadline, DeadlineOverdue); got != "Overdue on 12 Jan 2026" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := FormatDeadline(deadline, DeadlineScheduled); got != "12 Jan 2026" {
		t.Fatalf("unexpected label %q", got)
	}
}

func datePtr(date Date) *Date {
	return &date
}
