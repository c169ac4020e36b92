package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	var got []string
	first := Func(func(_ context.Context, alert Alert) error {
		got = append(got, "first:"+alert.Title)
		return errors.New("first failed")
	})
	second := Func(func(_ context.Context, alert Alert) error {
		got = append(got, "second:"+alert.Title)
		return nil
	})

	err := Multi{first, nil, second}.Notify(context.Background(), Alert{TaskID: 1, Title: "Call mum"})
	if err == nil || !strings.Contains(err.Error(), "first failed") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if strings.Join(got, ",") != "first:Call mum,second:Call mum" {
		t.Fatalf("expected both notifiers to run in order, got %v", got)
	}
}

func TestLogNotifierWritesAlert(t *testing.T) {
	var buf bytes.Buffer
	notifier := Log{Logger: log.New(&buf)}

	if err := notifier.Notify(context.Background(), Alert{TaskID: 7, Title: "Water plants"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(buf.String(), "Water plants") {
		t.Fatalf("expected title in log output, got %q", buf.String())
	}
}

func TestCommandMissingDegradesToNoop(t *testing.T) {
	var buf bytes.Buffer
	lookups := 0
	notifier := NewCommand("taskminder-missing-notifier", WithLogger(log.New(&buf)))
	notifier.lookPath = func(string) (string, error) {
		lookups++
		return "", errors.New("not found")
	}

	for i := 0; i < 3; i++ {
		if err := notifier.Notify(context.Background(), Alert{Title: "x"}); err != nil {
			t.Fatalf("expected missing command to be a no-op, got %v", err)
		}
	}
	if lookups != 1 {
		t.Fatalf("expected a single lookup, got %d", lookups)
	}
	if notifier.Available() {
		t.Fatalf("expected command to be unavailable")
	}
	if strings.Count(buf.String(), "desktop notifications disabled") != 1 {
		t.Fatalf("expected one warning, got %q", buf.String())
	}
}

func TestCommandPassesTitleAndDescription(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script notifier")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "args.txt")
	script := filepath.Join(dir, "notifier.sh")
	body := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + out + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	notifier := NewCommand(script)
	if err := notifier.Notify(context.Background(), Alert{TaskID: 1, Title: "Pay rent", Description: "Before Friday"}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if string(data) != "Pay rent\nBefore Friday\n" {
		t.Fatalf("unexpected arguments %q", data)
	}
}

func TestCommandReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script notifier")
	}
	script := filepath.Join(t.TempDir(), "broken.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	err := NewCommand(script).Notify(context.Background(), Alert{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected failure with output, got %v", err)
	}
}

func TestNewCommandDefaultsName(t *testing.T) {
	if got := NewCommand("  ").name; got != DefaultCommand {
		t.Fatalf("expected %s, got %s", DefaultCommand, got)
	}
}
