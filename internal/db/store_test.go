package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Joseda-hg/taskminder/internal/storage"
)

func TestPutOverwritesValue(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Put(context.Background(), "tasks", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(context.Background(), "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, err := store.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(value) != "[]" {
		t.Fatalf("expected '[]', got %q", value)
	}

	var rows int
	if err := store.DB.QueryRow("SELECT COUNT(*) FROM kv").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "tasks")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyValueIsStoredNotMissing(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Put(context.Background(), "tasks", nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	value, err := store.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(value) != 0 {
		t.Fatalf("expected empty value, got %q", value)
	}
}

func TestStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskminder.db")
	sqlDB, err := Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := NewStore(sqlDB).Put(context.Background(), "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = sqlDB.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	store := NewStore(reopened)
	defer store.Close()

	if _, err := store.Get(context.Background(), "tasks"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db), func() {
		_ = db.Close()
	}
}
