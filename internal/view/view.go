// Package view derives the displayed task list from the collection.
package view

import (
	"sort"
	"strings"

	"github.com/Joseda-hg/taskminder/internal/model"
	"golang.org/x/text/cases"
)

type Criteria struct {
	Status   model.StatusFilter
	Priority model.PriorityFilter
	Search   string
}

// ParseCriteria validates filter values typed by a user. Empty values mean
// no filtering.
func ParseCriteria(status, priority, search string) (Criteria, error) {
	statusFilter, err := model.ParseStatusFilter(status)
	if err != nil {
		return Criteria{}, err
	}
	priorityFilter, err := model.ParsePriorityFilter(priority)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Status: statusFilter, Priority: priorityFilter, Search: search}, nil
}

// Active reports whether any filter narrows the list.
func (c Criteria) Active() bool {
	return !(c.Status == "" || c.Status == model.StatusAll) ||
		!(c.Priority == "" || c.Priority == model.PriorityAll) ||
		strings.TrimSpace(c.Search) != ""
}

// Derive filters tasks and sorts the result: pending before completed, then
// High, Medium, Low. Ties keep their input order. tasks is not modified.
func Derive(tasks []model.Task, criteria Criteria) []model.Task {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(criteria.Search))

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !criteria.Status.Matches(task.Completed) {
			continue
		}
		if !criteria.Priority.Matches(task.Priority) {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(task.Title), needle) &&
			!strings.Contains(fold.String(task.Description), needle) {
			continue
		}
		out = append(out, task)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}
