package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/storage"
	"github.com/charmbracelet/log"
)

// DefaultKey is the fixed key the collection lives under.
const DefaultKey = "tasks"

// Fallback selects what Load returns when nothing usable is stored.
type Fallback string

const (
	FallbackSeed  Fallback = "seed"
	FallbackEmpty Fallback = "empty"
)

func ParseFallback(value string) (Fallback, error) {
	switch Fallback(strings.ToLower(strings.TrimSpace(value))) {
	case "", FallbackSeed:
		return FallbackSeed, nil
	case FallbackEmpty:
		return FallbackEmpty, nil
	}
	return "", fmt.Errorf("invalid fallback %q: expected seed or empty", value)
}

// Adapter reads and writes the task collection as one JSON value.
type Adapter struct {
	kv       storage.KV
	key      string
	fallback Fallback
	logger   *log.Logger
	now      func() time.Time
}

type Option func(*Adapter)

func WithKey(key string) Option {
	return func(a *Adapter) {
		if strings.TrimSpace(key) != "" {
			a.key = key
		}
	}
}

func WithFallback(fallback Fallback) Option {
	return func(a *Adapter) { a.fallback = fallback }
}

func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAdapter(kv storage.KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:       kv,
		key:      DefaultKey,
		fallback: FallbackSeed,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns the stored collection. It never fails: a missing, empty or
// invalid value yields the configured fallback and the cause is logged.
func (a *Adapter) Load(ctx context.Context) []model.Task {
	data, err := a.kv.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Info("no stored tasks, using fallback", "key", a.key, "fallback", a.fallback)
		} else {
			a.logger.Error("failed to read stored tasks", "key", a.key, "err", err)
		}
		return a.fallbackTasks()
	}

	tasks, err := Decode(data)
	if err != nil {
		a.logger.Error("failed to parse stored tasks", "key", a.key, "fallback", a.fallback, "err", err)
		return a.fallbackTasks()
	}

	a.logger.Debug("loaded tasks", "key", a.key, "count", len(tasks))
	return tasks
}

// Save overwrites the stored value with the entire collection.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

func (a *Adapter) fallbackTasks() []model.Task {
	if a.fallback == FallbackEmpty {
		return []model.Task{}
	}
	return Seed(a.now())
}
