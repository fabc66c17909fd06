package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the snapshot in one JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage: file store path is empty")
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, false, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read snapshot file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Snapshot{}, false, nil
	}
	snap, ok := decodeStored(s.logger, s.path, raw)
	return snap, ok, nil
}

// Save writes atomically via a temp file and skips the write when the
// encoded snapshot is unchanged.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	payload = append(payload, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if existing, err := os.ReadFile(s.path); err == nil {
		if bytes.Equal(existing, payload) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read snapshot file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	name := tmp.Name()
	_, err = tmp.Write(payload)
	if closeErr := tmp.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write temp snapshot file: %w", err)
	}
	if err := os.Rename(name, s.path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
