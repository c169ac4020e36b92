package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
)

var baseTime = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

type recordingSaver struct {
	mu    sync.Mutex
	saves [][]model.Task
	err   error
}

func (r *recordingSaver) Save(_ context.Context, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, tasks)
	return r.err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func newTestStore(t *testing.T, tasks []model.Task) (*Store, *recordingSaver) {
	t.Helper()
	saver := &recordingSaver{}
	now := baseTime
	clock := func() time.Time { return now }
	return New(tasks, WithSaver(saver), WithClock(clock)), saver
}

func TestCreatePrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	s, saver := newTestStore(t, nil)

	first, ok := s.Create(ctx, TaskInput{Title: "  Buy milk  ", Description: " 2 litres ", Priority: model.PriorityHigh})
	if !ok {
		t.Fatalf("expected create to succeed")
	}
	second, ok := s.Create(ctx, TaskInput{Title: "Walk dog"})
	if !ok {
		t.Fatalf("expected second create to succeed")
	}

	if first.Title != "Buy milk" || first.Description != "2 litres" {
		t.Fatalf("expected trimmed fields, got %q / %q", first.Title, first.Description)
	}
	if first.Completed || first.Comments == nil || len(first.Comments) != 0 {
		t.Fatalf("expected fresh task state, got %#v", first)
	}
	if second.Priority != model.PriorityMedium {
		t.Fatalf("expected default priority Medium, got %q", second.Priority)
	}
	if first.ID == second.ID {
		t.Fatalf("expected unique ids, got %d twice", first.ID)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("expected newest task first, got %#v", tasks)
	}
	if saver.count() != 2 {
		t.Fatalf("expected 2 saves, got %d", saver.count())
	}
	if !reflect.DeepEqual(saver.last(), tasks) {
		t.Fatalf("expected saver to receive the whole collection")
	}
}

func TestCreateRejectsBlankTitleAndBadPriority(t *testing.T) {
	ctx := context.Background()
	s, saver := newTestStore(t, nil)

	if _, ok := s.Create(ctx, TaskInput{Title: "   "}); ok {
		t.Fatalf("expected blank title to be rejected")
	}
	if _, ok := s.Create(ctx, TaskInput{Title: "x", Priority: "Urgent"}); ok {
		t.Fatalf("expected unknown priority to be rejected")
	}
	if len(s.Tasks()) != 0 || saver.count() != 0 {
		t.Fatalf("expected no state change and no saves")
	}
}

func TestCreateIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, []model.Task{{ID: baseTime.UnixMilli() + 5, Title: "future", Priority: model.PriorityLow}})

	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		task, ok := s.Create(ctx, TaskInput{Title: "same instant"})
		if !ok {
			t.Fatalf("create %d failed", i)
		}
		if seen[task.ID] || task.ID <= baseTime.UnixMilli()+5 {
			t.Fatalf("id %d is not fresh", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestUpdateRestrictedFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Original", Description: "keep me", Priority: model.PriorityLow})
	comment, _ := s.AddComment(ctx, task.ID, "note")

	title := "X"
	updated, ok := s.Update(ctx, task.ID, TaskPatch{Title: &title})
	if !ok {
		t.Fatalf("expected update to succeed")
	}
	if updated.Title != "X" {
		t.Fatalf("expected title X, got %q", updated.Title)
	}
	if updated.ID != task.ID || updated.Description != "keep me" || updated.Priority != model.PriorityLow {
		t.Fatalf("expected other fields unchanged, got %#v", updated)
	}
	if len(updated.Comments) != 1 || updated.Comments[0] != comment {
		t.Fatalf("expected comments unchanged, got %#v", updated.Comments)
	}
}

func TestUpdateRejectsWholePatch(t *testing.T) {
	ctx := context.Background()
	s, saver := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Original"})
	saves := saver.count()

	blank := "  "
	description := "changed"
	if _, ok := s.Update(ctx, task.ID, TaskPatch{Title: &blank, Description: &description}); ok {
		t.Fatalf("expected blank title to reject the patch")
	}
	bad := model.Priority("Urgent")
	if _, ok := s.Update(ctx, task.ID, TaskPatch{Priority: &bad, Description: &description}); ok {
		t.Fatalf("expected invalid priority to reject the patch")
	}

	current, _ := s.Get(task.ID)
	if current.Description != "" {
		t.Fatalf("expected description untouched, got %q", current.Description)
	}
	if saver.count() != saves {
		t.Fatalf("expected no save for rejected patches")
	}
	if _, ok := s.Update(ctx, 999, TaskPatch{Description: &description}); ok {
		t.Fatalf("expected update of unknown id to be a no-op")
	}
}

func TestUpdateTriStateFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	deadline := model.NewDate(2026, time.October, 20)
	reminder := baseTime.Add(time.Hour)
	task, _ := s.Create(ctx, TaskInput{Title: "Dated", Deadline: &deadline, Reminder: &reminder})

	description := "only this"
	updated, _ := s.Update(ctx, task.ID, TaskPatch{Description: &description})
	if updated.Deadline == nil || updated.Reminder == nil {
		t.Fatalf("expected untouched fields to keep their values")
	}

	updated, _ = s.Update(ctx, task.ID, TaskPatch{
		Deadline: SetTo(model.NewDate(2026, time.December, 1)),
		Reminder: Clear[time.Time](),
	})
	if updated.Deadline == nil || *updated.Deadline != model.NewDate(2026, time.December, 1) {
		t.Fatalf("expected deadline to be replaced, got %v", updated.Deadline)
	}
	if updated.Reminder != nil {
		t.Fatalf("expected reminder to be cleared")
	}

	completed := true
	updated, _ = s.Update(ctx, task.ID, TaskPatch{Completed: &completed, Deadline: Clear[model.Date]()})
	if !updated.Completed || updated.Deadline != nil {
		t.Fatalf("expected completed task without deadline, got %#v", updated)
	}
}

func TestToggleTwiceRestoresTask(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Toggle me", Priority: model.PriorityHigh})
	before, _ := s.Get(task.ID)

	toggled, ok := s.ToggleCompletion(ctx, task.ID)
	if !ok {
		t.Fatalf("expected toggle to succeed")
	}
	mid, _ := s.Get(task.ID)
	if !mid.Completed || !toggled.Completed {
		t.Fatalf("expected completed after first toggle")
	}
	s.ToggleCompletion(ctx, task.ID)
	after, _ := s.Get(task.ID)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected task restored:\nbefore %#v\nafter  %#v", before, after)
	}
	if _, ok := s.ToggleCompletion(ctx, 12345); ok {
		t.Fatalf("expected toggle of unknown id to be a no-op")
	}
}

func TestDeleteCascadesComments(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Doomed"})
	s.AddComment(ctx, task.ID, "first")

	if !s.Delete(ctx, task.ID) {
		t.Fatalf("expected delete to succeed")
	}
	if _, ok := s.Get(task.ID); ok {
		t.Fatalf("expected task to be gone")
	}
	if _, ok := s.AddComment(ctx, task.ID, "late"); ok {
		t.Fatalf("expected comment on deleted task to be a no-op")
	}
	if s.Delete(ctx, task.ID) {
		t.Fatalf("expected second delete to be a no-op")
	}
}

func TestAddCommentOrderAndIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Chatty"})

	if _, ok := s.AddComment(ctx, task.ID, "   "); ok {
		t.Fatalf("expected blank comment to be rejected")
	}
	first, _ := s.AddComment(ctx, task.ID, " one ")
	second, _ := s.AddComment(ctx, task.ID, "two")

	if first.Text != "one" || !first.CreatedAt.Equal(baseTime) {
		t.Fatalf("unexpected first comment %#v", first)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing comment ids, got %d then %d", first.ID, second.ID)
	}
	current, _ := s.Get(task.ID)
	if len(current.Comments) != 2 || current.Comments[0].Text != "one" || current.Comments[1].Text != "two" {
		t.Fatalf("expected comments in insertion order, got %#v", current.Comments)
	}
}

func TestClearReminder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	reminder := baseTime.Add(-time.Minute)
	task, _ := s.Create(ctx, TaskInput{Title: "Ping", Reminder: &reminder})

	if !s.ClearReminder(ctx, task.ID) {
		t.Fatalf("expected clear to succeed")
	}
	current, _ := s.Get(task.ID)
	if current.Reminder != nil {
		t.Fatalf("expected reminder cleared")
	}
}

func TestClearReminderIfOnlyClearsMatchingReminder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	fired := baseTime.Add(-time.Minute)
	task, _ := s.Create(ctx, TaskInput{Title: "Ping", Reminder: &fired})

	later := baseTime.Add(time.Hour)
	s.Update(ctx, task.ID, TaskPatch{Reminder: SetTo(later)})
	if s.ClearReminderIf(ctx, task.ID, fired) {
		t.Fatalf("expected clear to skip a rescheduled reminder")
	}
	current, _ := s.Get(task.ID)
	if current.Reminder == nil || !current.Reminder.Equal(later) {
		t.Fatalf("expected rescheduled reminder kept, got %v", current.Reminder)
	}

	if !s.ClearReminderIf(ctx, task.ID, later.In(time.FixedZone("UTC+2", 2*60*60))) {
		t.Fatalf("expected clear to match the same instant in another zone")
	}
	current, _ = s.Get(task.ID)
	if current.Reminder != nil {
		t.Fatalf("expected reminder cleared")
	}
	if s.ClearReminderIf(ctx, 999, later) {
		t.Fatalf("expected missing task to report false")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	task, _ := s.Create(ctx, TaskInput{Title: "Isolated"})
	s.AddComment(ctx, task.ID, "original")

	snapshot := s.Tasks()
	snapshot[0].Title = "mutated"
	snapshot[0].Comments[0].Text = "mutated"

	current, _ := s.Get(task.ID)
	if current.Title != "Isolated" || current.Comments[0].Text != "original" {
		t.Fatalf("expected store state untouched by snapshot edits, got %#v", current)
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	s, saver := newTestStore(t, nil)
	saver.err = errors.New("quota exceeded")

	task, ok := s.Create(ctx, TaskInput{Title: "Still here"})
	if !ok {
		t.Fatalf("expected create to succeed despite save failure")
	}
	if _, ok := s.Get(task.ID); !ok {
		t.Fatalf("expected in-memory state to keep the task")
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, ok := s.Create(ctx, TaskInput{Title: "parallel"})
			if ok {
				s.ToggleCompletion(ctx, task.ID)
				s.AddComment(ctx, task.ID, "done")
			}
		}()
	}
	wg.Wait()

	tasks := s.Tasks()
	if len(tasks) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(tasks))
	}
	ids := map[int64]bool{}
	for _, task := range tasks {
		if ids[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		ids[task.ID] = true
	}
}

func TestReplaceDoesNotSave(t *testing.T) {
	s, saver := newTestStore(t, nil)
	s.Replace([]model.Task{{ID: 42, Title: "Loaded", Priority: model.PriorityLow}})

	if saver.count() != 0 {
		t.Fatalf("expected replace not to save")
	}
	created, _ := s.Create(context.Background(), TaskInput{Title: "after"})
	if created.ID <= 42 {
		t.Fatalf("expected ids past replaced collection, got %d", created.ID)
	}
}
