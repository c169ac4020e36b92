package reminder

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/notify"
	"github.com/Joseda-hg/taskminder/internal/store"
)

var now = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := now.Add(offset)
	return &t
}

type collector struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (c *collector) Notify(_ context.Context, alert notify.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, alert)
	return nil
}

func (c *collector) titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.alerts))
	for i, alert := range c.alerts {
		out[i] = alert.Title
	}
	return out
}

func newMonitor(tasks []model.Task, notifier notify.Notifier) (*Monitor, *store.Store) {
	s := store.New(tasks, store.WithClock(func() time.Time { return now }))
	return NewMonitor(s, notifier, WithClock(func() time.Time { return now })), s
}

func TestDue(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Title: "past", Reminder: at(-time.Minute)},
		{ID: 2, Title: "future", Reminder: at(time.Minute)},
		{ID: 3, Title: "exactly now", Reminder: at(0)},
		{ID: 4, Title: "completed", Reminder: at(-time.Hour), Completed: true},
		{ID: 5, Title: "no reminder"},
	}

	got := Due(tasks, now)
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
}

func TestCheckFiresOnceAndClears(t *testing.T) {
	notifier := &collector{}
	monitor, s := newMonitor([]model.Task{
		{ID: 1, Title: "first", Description: "one", Priority: model.PriorityLow, Reminder: at(-2 * time.Minute)},
		{ID: 2, Title: "later", Priority: model.PriorityLow, Reminder: at(time.Hour)},
		{ID: 3, Title: "second", Priority: model.PriorityLow, Reminder: at(-time.Second)},
	}, notifier)

	fired := monitor.Check(context.Background())
	if !reflect.DeepEqual(fired, []int64{1, 3}) {
		t.Fatalf("expected [1 3] fired, got %v", fired)
	}
	if !reflect.DeepEqual(notifier.titles(), []string{"first", "second"}) {
		t.Fatalf("expected alerts in collection order, got %v", notifier.titles())
	}
	for _, id := range []int64{1, 3} {
		task, _ := s.Get(id)
		if task.Reminder != nil {
			t.Fatalf("expected reminder of %d cleared", id)
		}
	}
	if task, _ := s.Get(2); task.Reminder == nil {
		t.Fatalf("expected future reminder untouched")
	}

	if again := monitor.Check(context.Background()); len(again) != 0 {
		t.Fatalf("expected no second firing, got %v", again)
	}
	if len(notifier.titles()) != 2 {
		t.Fatalf("expected exactly two alerts, got %d", len(notifier.titles()))
	}
}

func TestCheckReadsCurrentState(t *testing.T) {
	notifier := &collector{}
	monitor, s := newMonitor(nil, notifier)

	task, ok := s.Create(context.Background(), store.TaskInput{Title: "added later", Reminder: at(-time.Second)})
	if !ok {
		t.Fatalf("create failed")
	}

	fired := monitor.Check(context.Background())
	if !reflect.DeepEqual(fired, []int64{task.ID}) {
		t.Fatalf("expected reminder added after construction to fire, got %v", fired)
	}
}

func TestCheckSkipsCompletedTasks(t *testing.T) {
	notifier := &collector{}
	monitor, s := newMonitor([]model.Task{
		{ID: 1, Title: "done", Priority: model.PriorityLow, Completed: true, Reminder: at(-time.Minute)},
	}, notifier)

	if fired := monitor.Check(context.Background()); len(fired) != 0 {
		t.Fatalf("expected nothing fired, got %v", fired)
	}
	if task, _ := s.Get(1); task.Reminder == nil {
		t.Fatalf("expected reminder of completed task to stay")
	}
}

func TestCheckSurvivesNotifierFailures(t *testing.T) {
	calls := 0
	notifier := notify.Func(func(_ context.Context, alert notify.Alert) error {
		calls++
		switch alert.TaskID {
		case 1:
			panic("notifier exploded")
		case 2:
			return errors.New("permission denied")
		}
		return nil
	})
	monitor, s := newMonitor([]model.Task{
		{ID: 1, Title: "panics", Priority: model.PriorityLow, Reminder: at(-time.Minute)},
		{ID: 2, Title: "errors", Priority: model.PriorityLow, Reminder: at(-time.Minute)},
		{ID: 3, Title: "works", Priority: model.PriorityLow, Reminder: at(-time.Minute)},
	}, notifier)

	fired := monitor.Check(context.Background())
	if !reflect.DeepEqual(fired, []int64{1, 2, 3}) {
		t.Fatalf("expected all reminders processed, got %v", fired)
	}
	if calls != 3 {
		t.Fatalf("expected 3 notifier calls, got %d", calls)
	}
	for _, task := range s.Tasks() {
		if task.Reminder != nil {
			t.Fatalf("expected reminder of %d cleared", task.ID)
		}
	}
}

func TestCheckKeepsReminderRescheduledDuringDelivery(t *testing.T) {
	var s *store.Store
	rescheduled := now.Add(time.Hour)
	notifier := notify.Func(func(ctx context.Context, alert notify.Alert) error {
		if _, ok := s.Update(ctx, alert.TaskID, store.TaskPatch{Reminder: store.SetTo(rescheduled)}); !ok {
			t.Errorf("reschedule during delivery failed")
		}
		return nil
	})
	monitor, st := newMonitor([]model.Task{
		{ID: 1, Title: "snoozed", Priority: model.PriorityLow, Reminder: at(-time.Minute)},
	}, notifier)
	s = st

	if fired := monitor.Check(context.Background()); !reflect.DeepEqual(fired, []int64{1}) {
		t.Fatalf("expected [1] fired, got %v", fired)
	}
	task, _ := s.Get(1)
	if task.Reminder == nil || !task.Reminder.Equal(rescheduled) {
		t.Fatalf("expected rescheduled reminder %v to survive, got %v", rescheduled, task.Reminder)
	}
	if fired := monitor.Check(context.Background()); len(fired) != 0 {
		t.Fatalf("expected rescheduled reminder to wait, got %v", fired)
	}
}

func TestCheckToleratesTaskDeletedDuringDelivery(t *testing.T) {
	var s *store.Store
	notifier := notify.Func(func(ctx context.Context, alert notify.Alert) error {
		s.Delete(ctx, alert.TaskID)
		return nil
	})
	monitor, st := newMonitor([]model.Task{
		{ID: 1, Title: "gone", Priority: model.PriorityLow, Reminder: at(-time.Minute)},
	}, notifier)
	s = st

	monitor.Check(context.Background())
	if len(s.Tasks()) != 0 {
		t.Fatalf("expected task to stay deleted, got %d tasks", len(s.Tasks()))
	}
}

func TestRunChecksImmediatelyAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.Func(func(context.Context, notify.Alert) error {
		cancel()
		return nil
	})
	monitor, s := newMonitor([]model.Task{
		{ID: 1, Title: "now", Priority: model.PriorityLow, Reminder: at(-time.Second)},
	}, notifier)
	monitor.interval = time.Hour

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Run to return after cancellation")
	}
	if task, _ := s.Get(1); task.Reminder != nil {
		t.Fatalf("expected immediate check to fire the reminder")
	}
}

func TestNewMonitorDefaults(t *testing.T) {
	monitor := NewMonitor(store.New(nil), nil, WithInterval(0))
	if monitor.Interval() != DefaultInterval {
		t.Fatalf("expected default interval, got %s", monitor.Interval())
	}
	if fired := monitor.Check(context.Background()); fired != nil {
		t.Fatalf("expected nothing to fire, got %v", fired)
	}
}
