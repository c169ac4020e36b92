package persist

import (
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
)

// Seed returns the sample collection shown on first start. Deadlines are
// relative to now.
func Seed(now time.Time) []model.Task {
	today := model.DateOf(now)
	inThreeDays := today.AddDays(3)
	twoDaysAgo := today.AddDays(-2)
	lastWeek := today.AddDays(-7)

	return []model.Task{
		{
			ID:          1,
			Title:       "Design the app UI",
			Description: "Create the mockups and the final prototype.",
			Comments:    []model.Comment{},
			Priority:    model.PriorityHigh,
			Deadline:    &inThreeDays,
		},
		{
			ID:          2,
			Title:       "Build the frontend",
			Description: "Implement the user interface on top of the task store.",
			Comments: []model.Comment{
				{ID: 1, Text: "Review the color palette.", CreatedAt: now.Add(-24 * time.Hour).UTC()},
			},
			Priority: model.PriorityHigh,
			Deadline: &twoDaysAgo,
		},
		{
			ID:          3,
			Title:       "Set up the database",
			Description: "Design the schema and configure storage for tasks.",
			Comments:    []model.Comment{},
			Priority:    model.PriorityMedium,
		},
		{
			ID:          4,
			Title:       "Team meeting",
			Description: "Review sprint progress and plan the next tasks.",
			Comments:    []model.Comment{},
			Priority:    model.PriorityLow,
			Completed:   true,
			Deadline:    &lastWeek,
		},
	}
}
