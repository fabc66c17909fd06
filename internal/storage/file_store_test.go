package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreCompliance(t *testing.T) {
	runSnapshotStoreCompliance(t, func(t *testing.T) SnapshotStore {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "todos.json"), nil)
		if err != nil {
			t.Fatalf("new file store: %v", err)
		}
		return store
	})
}

func TestFileStoreLoadsLegacyBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte(`{"todos":["x"]}`), 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	store, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	snap, ok, err := store.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("load legacy blob: ok=%v err=%v", ok, err)
	}
	if len(snap.Todos) != 1 || snap.Todos[0] != "x" || len(snap.FutureTodos) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestFileStoreGarbageIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	store, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("garbage must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("garbage must load as absent")
	}
}

func TestFileStoreSkipsUnchangedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	store, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, Snapshot{Todos: []string{"a"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := store.Save(ctx, Snapshot{Todos: []string{"a"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !os.SameFile(before, after) {
		t.Fatal("expected unchanged snapshot not to replace the file")
	}
}

func TestFileStoreSaveFailsWhenDirIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store, err := NewFileStore(filepath.Join(blocker, "todos.json"), nil)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Save(context.Background(), Snapshot{Todos: []string{"a"}}); err == nil {
		t.Fatal("expected save error when parent is a file")
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore("  ", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}
