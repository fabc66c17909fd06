package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "backlog-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreCompliance(t *testing.T) {
	runSnapshotStoreCompliance(t, func(t *testing.T) SnapshotStore {
		return setupSQLite(t)
	})
}

func TestSQLiteKeyValueCRUD(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	stamp := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	store.now = func() time.Time { return stamp.Add(time.Minute) }
	if err := store.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || got != "v2" {
		t.Fatalf("get = %q, %v; want v2", got, err)
	}
	updated, err := store.UpdatedAt(ctx, "k")
	if err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if !updated.Equal(stamp.Add(time.Minute)) {
		t.Fatalf("unexpected updated_at: %s", updated.Format(time.RFC3339))
	}
	if _, err := store.UpdatedAt(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
}

func TestSQLiteLoadsMalformedRowAsAbsent(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	if err := store.Put(ctx, SnapshotKey, "[1,2,3]"); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("malformed row must not error, got %v", err)
	}
	if ok {
		t.Fatal("malformed row must load as absent")
	}
}

func TestNewSQLiteStoreRejectsNilDB(t *testing.T) {
	if _, err := NewSQLiteStore(nil, nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fileBackend, err := Open(ctx, DriverFile, filepath.Join(dir, "todos.json"), nil)
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	if _, ok := fileBackend.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", fileBackend)
	}

	sqliteBackend, err := Open(ctx, "SQLite", filepath.Join(dir, "todos.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer sqliteBackend.Close()
	if _, ok := sqliteBackend.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", sqliteBackend)
	}

	if _, err := Open(ctx, "redis", "x", nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

