package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/dustin/go-humanize"
)

const reminderLayout = "2006-01-02 15:04"

func formatTaskSummary(task model.Task, now time.Time) string {
	mark := "[ ]"
	if task.Completed {
		mark = "[x]"
	}
	parts := []string{fmt.Sprintf("%s %-6s %s", mark, task.Priority, task.Title)}

	if task.Deadline != nil {
		if label := model.ClassifyDeadline(task.Deadline, task.Completed, now).Label(); label != "" {
			parts = append(parts, label)
		} else {
			parts = append(parts, "due "+task.Deadline.String())
		}
	}
	if task.Reminder != nil && !task.Completed {
		parts = append(parts, "reminds "+humanize.RelTime(*task.Reminder, now, "ago", "from now"))
	}
	if count := len(task.Comments); count > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", count, plural(count, "comment", "comments")))
	}
	return strings.Join(parts, " | ")
}

func detailLines(task model.Task, now time.Time) []string {
	status := "Pending"
	if task.Completed {
		status = "Completed"
	}

	deadline := "none"
	if task.Deadline != nil {
		deadline = model.FormatDeadline(*task.Deadline, model.ClassifyDeadline(task.Deadline, task.Completed, now))
	}

	reminder := "none"
	if task.Reminder != nil {
		reminder = fmt.Sprintf("%s (%s)", task.Reminder.In(now.Location()).Format(reminderLayout),
			humanize.RelTime(*task.Reminder, now, "ago", "from now"))
	}

	description := strings.TrimSpace(task.Description)
	if description == "" {
		description = "No description"
	}

	lines := []string{
		task.Title,
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Priority: %s", task.Priority),
		fmt.Sprintf("Deadline: %s", deadline),
		fmt.Sprintf("Reminder: %s", reminder),
		"",
		description,
		"",
		fmt.Sprintf("Comments (%d):", len(task.Comments)),
	}
	if len(task.Comments) == 0 {
		lines = append(lines, "  none yet, press c to add one")
	}
	for _, comment := range task.Comments {
		lines = append(lines, fmt.Sprintf("- %s (%s)", comment.Text, humanize.RelTime(comment.CreatedAt, now, "ago", "from now")))
	}
	return lines
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
