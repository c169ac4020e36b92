// Package reminder fires one-shot alerts for tasks whose reminder time has
// passed.
package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/notify"
	"github.com/charmbracelet/log"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTimeout  = 10 * time.Second
)

// Source is the slice of the task store the monitor needs.
type Source interface {
	Tasks() []model.Task
	ClearReminderIf(ctx context.Context, id int64, firedAt time.Time) bool
}

// Due returns, in collection order, the ids of pending tasks whose reminder
// is at or before now.
func Due(tasks []model.Task, now time.Time) []int64 {
	var due []int64
	for _, task := range tasks {
		if task.Completed || task.Reminder == nil {
			continue
		}
		if !now.Before(*task.Reminder) {
			due = append(due, task.ID)
		}
	}
	return due
}

type Monitor struct {
	source   Source
	notifier notify.Notifier
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

type Option func(*Monitor)

func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithTimeout bounds each notifier call.
func WithTimeout(timeout time.Duration) Option {
	return func(m *Monitor) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMonitor(source Source, notifier notify.Notifier, opts ...Option) *Monitor {
	m := &Monitor{
		source:   source,
		notifier: notifier,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Check fires every due reminder in the current collection and clears it.
// Notification failures are logged; the reminder is cleared regardless,
// unless it was rescheduled or removed while the alert was being delivered.
func (m *Monitor) Check(ctx context.Context) []int64 {
	tasks := m.source.Tasks()
	due := Due(tasks, m.now())
	if len(due) == 0 {
		return nil
	}

	byID := make(map[int64]model.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	fired := make([]int64, 0, len(due))
	for _, id := range due {
		if ctx.Err() != nil {
			break
		}
		task := byID[id]
		m.deliver(ctx, notify.Alert{TaskID: id, Title: task.Title, Description: task.Description})
		fired = append(fired, id)
		if !m.source.ClearReminderIf(ctx, id, *task.Reminder) {
			m.logger.Debug("reminder changed during delivery, keeping it", "id", id)
		}
	}
	return fired
}

// Run checks immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("reminder monitor stopped")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) deliver(ctx context.Context, alert notify.Alert) {
	if m.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.safeNotify(ctx, alert); err != nil {
		m.logger.Warn("reminder notification failed", "id", alert.TaskID, "err", err)
		return
	}
	m.logger.Info("reminder fired", "id", alert.TaskID, "title", alert.Title)
}

func (m *Monitor) safeNotify(ctx context.Context, alert notify.Alert) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return m.notifier.Notify(ctx, alert)
}
