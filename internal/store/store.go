// Package store owns the canonical task collection. Every mutation is
// validated, committed as a whole new collection and handed to the Saver
// before the next one starts.
package store

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/charmbracelet/log"
)

// Saver persists the entire collection after each successful mutation.
type Saver interface {
	Save(ctx context.Context, tasks []model.Task) error
}

type SaverFunc func(ctx context.Context, tasks []model.Task) error

func (f SaverFunc) Save(ctx context.Context, tasks []model.Task) error {
	return f(ctx, tasks)
}

type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Deadline    *model.Date
	Reminder    *time.Time
}

// Field is a tri-state patch value: untouched when Set is false, cleared
// when Set is true and Value is nil.
type Field[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: &value}
}

func Clear[T any]() Field[T] {
	return Field[T]{Set: true}
}

// TaskPatch lists the fields Update may replace. Nil pointers are left
// untouched. Identity and comments are not patchable.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Completed   *bool
	Deadline    Field[model.Date]
	Reminder    Field[time.Time]
}

type Store struct {
	mu     sync.Mutex
	tasks  []model.Task
	lastID int64

	saver  Saver
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Store)

func WithSaver(saver Saver) Option {
	return func(s *Store) { s.saver = saver }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a store around an initial collection, typically the result of
// persist.Adapter.Load. The collection is copied.
func New(tasks []model.Task, opts ...Option) *Store {
	s := &Store{
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset(tasks)
	return s
}

// Replace swaps the whole collection without saving it, e.g. after reloading
// from storage.
func (s *Store) Replace(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(tasks)
}

func (s *Store) reset(tasks []model.Task) {
	s.tasks = cloneTasks(tasks)
	for _, task := range s.tasks {
		if task.ID > s.lastID {
			s.lastID = task.ID
		}
	}
}

// Tasks returns a deep copy of the collection in store order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// Create prepends a new task. It is a no-op when the title is blank or the
// priority is unknown; an unset priority defaults to Medium.
func (s *Store) Create(ctx context.Context, input TaskInput) (model.Task, bool) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, false
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.Task{
		ID:          s.nextID(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Comments:    []model.Comment{},
		Priority:    priority,
		Deadline:    copyDate(input.Deadline),
		Reminder:    copyTime(input.Reminder),
	}

	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, task)
	next = append(next, s.tasks...)
	s.commit(ctx, next, "create", task.ID)
	return task.Clone(), true
}

// Update applies patch to the task with id. A blank title or unknown
// priority rejects the whole patch.
func (s *Store) Update(ctx context.Context, id int64, patch TaskPatch) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}

	task := s.tasks[idx]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return model.Task{}, false
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return model.Task{}, false
		}
		task.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Deadline.Set {
		task.Deadline = copyDate(patch.Deadline.Value)
	}
	if patch.Reminder.Set {
		task.Reminder = copyTime(patch.Reminder.Value)
	}

	next := s.replaceAt(idx, task)
	s.commit(ctx, next, "update", id)
	return task.Clone(), true
}

// Delete removes the task and its comments.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.commit(ctx, next, "delete", id)
	return true
}

// ToggleCompletion flips completed and returns the task as stored.
func (s *Store) ToggleCompletion(ctx context.Context, id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}

	task := s.tasks[idx]
	task.Completed = !task.Completed
	s.commit(ctx, s.replaceAt(idx, task), "toggle", id)
	return task.Clone(), true
}

// AddComment appends a comment with a fresh per-task id. Blank text is a
// no-op.
func (s *Store) AddComment(ctx context.Context, id int64, text string) (model.Comment, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Comment{}, false
	}

	task := s.tasks[idx]
	now := s.now()
	comment := model.Comment{
		ID:        nextCommentID(task.Comments, now),
		Text:      text,
		CreatedAt: now,
	}

	comments := make([]model.Comment, 0, len(task.Comments)+1)
	comments = append(comments, task.Comments...)
	task.Comments = append(comments, comment)

	s.commit(ctx, s.replaceAt(idx, task), "comment", id)
	return comment, true
}

// ClearReminder drops the reminder of a task.
func (s *Store) ClearReminder(ctx context.Context, id int64) bool {
	return s.clearReminder(ctx, id, func(*time.Time) bool { return true })
}

// ClearReminderIf drops the reminder of a task only while it still holds
// firedAt, so a reminder rescheduled during delivery survives.
func (s *Store) ClearReminderIf(ctx context.Context, id int64, firedAt time.Time) bool {
	return s.clearReminder(ctx, id, func(current *time.Time) bool {
		return current != nil && current.Equal(firedAt)
	})
}

func (s *Store) clearReminder(ctx context.Context, id int64, match func(*time.Time) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	task := s.tasks[idx]
	if !match(task.Reminder) {
		return false
	}
	task.Reminder = nil
	s.commit(ctx, s.replaceAt(idx, task), "clear reminder", id)
	return true
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, next []model.Task, op string, id int64) {
	s.tasks = next
	s.logger.Debug("task mutation", "op", op, "id", id, "count", len(next))

	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, cloneTasks(next)); err != nil {
		s.logger.Error("failed to persist tasks", "op", op, "id", id, "err", err)
	}
}

func (s *Store) replaceAt(idx int, task model.Task) []model.Task {
	next := make([]model.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = task
	return next
}

func (s *Store) indexOf(id int64) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives ids from the wall clock in milliseconds, bumping past the
// last issued id so rapid creation stays unique.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func nextCommentID(comments []model.Comment, now time.Time) int64 {
	id := now.UnixMilli()
	for _, comment := range comments {
		if comment.ID >= id {
			id = comment.ID + 1
		}
	}
	return id
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, task := range tasks {
		out[i] = task.Clone()
	}
	return out
}

func copyDate(date *model.Date) *model.Date {
	if date == nil || date.IsZero() {
		return nil
	}
	out := *date
	return &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	out := *t
	return &out
}
