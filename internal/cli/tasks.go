package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/store"
	"github.com/Joseda-hg/taskminder/internal/view"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const reminderLayout = "2006-01-02 15:04"

func listCmd(flags *globalFlags) *cobra.Command {
	var status, priority, search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, pending first and by priority",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := view.ParseCriteria(status, priority, search)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := view.Derive(a.store.Tasks(), criteria)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks match the current filters.")
				return nil
			}
			writeTaskTable(cmd.OutOrStdout(), tasks, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "all", "status filter: all, pending, completed")
	cmd.Flags().StringVarP(&priority, "priority", "p", "all", "priority filter: all, Low, Medium, High")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive title search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tasks as JSON")
	return cmd
}

func showCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			task, ok := a.store.Get(id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}
			writeTaskDetail(cmd.OutOrStdout(), task, time.Now())
			return nil
		},
	}
}

func addCmd(flags *globalFlags) *cobra.Command {
	var description, priority, deadline, remind string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := store.TaskInput{
				Title:       strings.Join(args, " "),
				Description: description,
			}
			if priority != "" {
				parsed, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				input.Priority = parsed
			}
			if deadline != "" {
				date, err := model.ParseDate(deadline)
				if err != nil {
					return err
				}
				input.Deadline = &date
			}
			if remind != "" {
				at, err := model.ParseReminder(remind, time.Local)
				if err != nil {
					return err
				}
				input.Reminder = &at
			}

			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			task, ok := a.store.Create(cmd.Context(), input)
			if !ok {
				return fmt.Errorf("task rejected: title is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: Low, Medium, High (default Medium)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&remind, "reminder", "", "reminder as YYYY-MM-DDTHH:MM or RFC 3339")
	return cmd
}

func editCmd(flags *globalFlags) *cobra.Command {
	var title, description, priority, deadline, remind string
	var clearDeadline, clearReminder bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			var patch store.TaskPatch
			if changed("title") {
				patch.Title = &title
			}
			if changed("description") {
				patch.Description = &description
			}
			if changed("priority") {
				parsed, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &parsed
			}
			switch {
			case clearDeadline:
				patch.Deadline = store.Clear[model.Date]()
			case changed("deadline"):
				date, err := model.ParseDate(deadline)
				if err != nil {
					return err
				}
				patch.Deadline = store.SetTo(date)
			}
			switch {
			case clearReminder:
				patch.Reminder = store.Clear[time.Time]()
			case changed("reminder"):
				at, err := model.ParseReminder(remind, time.Local)
				if err != nil {
					return err
				}
				patch.Reminder = store.SetTo(at)
			}

			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.store.Get(id); !ok {
				return fmt.Errorf("task %d not found", id)
			}
			task, ok := a.store.Update(cmd.Context(), id, patch)
			if !ok {
				return fmt.Errorf("task %d not updated: title must not be blank", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&remind, "reminder", "", "new reminder as YYYY-MM-DDTHH:MM or RFC 3339")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "remove the deadline")
	cmd.Flags().BoolVar(&clearReminder, "clear-reminder", false, "remove the reminder")
	cmd.MarkFlagsMutuallyExclusive("deadline", "clear-deadline")
	cmd.MarkFlagsMutuallyExclusive("reminder", "clear-reminder")
	return cmd
}

func toggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between pending and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			task, ok := a.store.ToggleCompletion(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", id, statusWord(task.Completed))
			return nil
		},
	}
}

func removeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its comments",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.store.Delete(cmd.Context(), id) {
				return fmt.Errorf("task %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func commentCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Append a comment to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.store.Get(id); !ok {
				return fmt.Errorf("task %d not found", id)
			}
			if _, ok := a.store.AddComment(cmd.Context(), id, strings.Join(args[1:], " ")); !ok {
				return fmt.Errorf("comment rejected: text is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added comment to task %d\n", id)
			return nil
		},
	}
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return id, nil
}

func statusWord(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func writeTaskTable(w io.Writer, tasks []model.Task, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tTITLE\tDEADLINE\tREMINDER")
	for _, task := range tasks {
		done := " "
		if task.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\t%s\t%s\n",
			task.ID, done, task.Priority, task.Title, deadlineText(task, now), reminderText(task, now))
	}
	tw.Flush()
}

func writeTaskDetail(w io.Writer, task model.Task, now time.Time) {
	fmt.Fprintf(w, "#%d %s\n", task.ID, task.Title)
	fmt.Fprintf(w, "Status:   %s\n", statusWord(task.Completed))
	fmt.Fprintf(w, "Priority: %s\n", task.Priority)
	if task.Deadline != nil {
		fmt.Fprintf(w, "Deadline: %s\n", deadlineText(task, now))
	}
	if task.Reminder != nil {
		fmt.Fprintf(w, "Reminder: %s\n", reminderText(task, now))
	}
	if task.Description != "" {
		fmt.Fprintf(w, "\n%s\n", task.Description)
	}
	if len(task.Comments) == 0 {
		return
	}
	fmt.Fprintf(w, "\nComments (%d):\n", len(task.Comments))
	for _, comment := range task.Comments {
		fmt.Fprintf(w, "  - %s (%s)\n", comment.Text, humanize.RelTime(comment.CreatedAt, now, "ago", "from now"))
	}
}

func deadlineText(task model.Task, now time.Time) string {
	if task.Deadline == nil {
		return "-"
	}
	status := model.ClassifyDeadline(task.Deadline, task.Completed, now)
	return model.FormatDeadline(*task.Deadline, status)
}

func reminderText(task model.Task, now time.Time) string {
	if task.Reminder == nil {
		return "-"
	}
	at := task.Reminder.Local()
	return fmt.Sprintf("%s (%s)", at.Format(reminderLayout), humanize.RelTime(at, now, "ago", "from now"))
}
