// Package notify delivers reminder alerts to the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultCommand is the desktop notification program used when none is
// configured.
const DefaultCommand = "notify-send"

// Alert is the payload of one fired reminder.
type Alert struct {
	TaskID      int64
	Title       string
	Description string
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Func adapts an in-process callback, e.g. a status line update.
type Func func(ctx context.Context, alert Alert) error

func (f Func) Notify(ctx context.Context, alert Alert) error {
	return f(ctx, alert)
}

// Multi sends every alert to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes alerts to a logger.
type Log struct {
	Logger *log.Logger
}

func (l Log) Notify(_ context.Context, alert Alert) error {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("task reminder", "id", alert.TaskID, "title", alert.Title, "description", alert.Description)
	return nil
}

// Command runs an external program with the alert title and description as
// arguments. The program is looked up once; when it is not installed the
// notifier does nothing.
type Command struct {
	name     string
	logger   *log.Logger
	lookPath func(string) (string, error)

	once sync.Once
	path string
}

type CommandOption func(*Command)

func WithLogger(logger *log.Logger) CommandOption {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCommand(name string, opts ...CommandOption) *Command {
	if strings.TrimSpace(name) == "" {
		name = DefaultCommand
	}
	c := &Command{
		name:     name,
		logger:   log.New(io.Discard),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the command was found.
func (c *Command) Available() bool {
	c.once.Do(c.resolve)
	return c.path != ""
}

func (c *Command) Notify(ctx context.Context, alert Alert) error {
	if !c.Available() {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.path, alert.Title, alert.Description)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("notification command %s failed: %w: %s", c.name, err, detail)
		}
		return fmt.Errorf("notification command %s failed: %w", c.name, err)
	}
	return nil
}

func (c *Command) resolve() {
	path, err := c.lookPath(c.name)
	if err != nil {
		c.logger.Warn("desktop notifications disabled", "command", c.name, "err", err)
		return
	}
	c.path = path
}
