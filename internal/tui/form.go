package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/store"
	"github.com/jesseduffield/gocui"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDeadline
	fieldReminder
)

func buildFormFields(task *model.Task, loc *time.Location) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Priority (space/←→)"},
		{Label: "Deadline (YYYY-MM-DD)"},
		{Label: "Reminder (YYYY-MM-DD HH:MM)"},
	}

	if task == nil {
		fields[fieldPriority].Value = string(model.PriorityMedium)
		return fields
	}

	fields[fieldTitle].Value = task.Title
	fields[fieldDescription].Value = task.Description
	fields[fieldPriority].Value = string(task.Priority)
	if task.Deadline != nil {
		fields[fieldDeadline].Value = task.Deadline.String()
	}
	if task.Reminder != nil {
		fields[fieldReminder].Value = task.Reminder.In(loc).Format(reminderLayout)
	}
	return fields
}

type formValues struct {
	Title       string
	Description string
	Priority    model.Priority
	Deadline    *model.Date
	Reminder    *time.Time
}

func parseFormFields(fields []formField, loc *time.Location) (formValues, error) {
	title := strings.TrimSpace(fields[fieldTitle].Value)
	if title == "" {
		return formValues{}, fmt.Errorf("title is required")
	}

	priority, err := model.ParsePriority(fields[fieldPriority].Value)
	if err != nil {
		return formValues{}, err
	}

	values := formValues{
		Title:       title,
		Description: strings.TrimSpace(fields[fieldDescription].Value),
		Priority:    priority,
	}

	if value := strings.TrimSpace(fields[fieldDeadline].Value); value != "" {
		deadline, err := model.ParseDate(value)
		if err != nil {
			return formValues{}, err
		}
		values.Deadline = &deadline
	}
	if value := strings.TrimSpace(fields[fieldReminder].Value); value != "" {
		reminder, err := model.ParseReminder(value, loc)
		if err != nil {
			return formValues{}, err
		}
		values.Reminder = &reminder
	}
	return values, nil
}

func (v formValues) input() store.TaskInput {
	return store.TaskInput{
		Title:       v.Title,
		Description: v.Description,
		Priority:    v.Priority,
		Deadline:    v.Deadline,
		Reminder:    v.Reminder,
	}
}

// patch replaces every form field, clearing dates left blank.
func (v formValues) patch() store.TaskPatch {
	patch := store.TaskPatch{
		Title:       &v.Title,
		Description: &v.Description,
		Priority:    &v.Priority,
		Deadline:    store.Clear[model.Date](),
		Reminder:    store.Clear[time.Time](),
	}
	if v.Deadline != nil {
		patch.Deadline = store.SetTo(*v.Deadline)
	}
	if v.Reminder != nil {
		patch.Reminder = store.SetTo(*v.Reminder)
	}
	return patch
}

func (u *UI) renderForm(v *gocui.View) {
	if u.form == nil || v == nil {
		return
	}
	v.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(v, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	if u.status != "" {
		fmt.Fprintf(v, "\n%s", u.status)
	}
	field := u.form.fields[u.form.index]
	cursorX := len([]rune(field.Label+": ")) + len([]rune(field.Value)) + 2
	v.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || v == nil {
		return false
	}
	editFormField(ui.form, key, ch, mod)
	ui.renderForm(v)
	return true
}

func editFormField(form *formState, key gocui.Key, ch rune, mod gocui.Modifier) {
	field := &form.fields[form.index]
	if form.index == fieldPriority {
		current, err := model.ParsePriority(field.Value)
		if err != nil {
			current = model.PriorityMedium
		}
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = string(cycle(model.Priorities, current, 1))
		case gocui.KeyArrowLeft:
			field.Value = string(cycle(model.Priorities, current, -1))
		}
		return
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}
	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}
}
