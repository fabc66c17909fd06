package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Backend is a SnapshotStore that owns resources.
type Backend interface {
	SnapshotStore
	Close() error
}

// Open returns the store for driver rooted at path.
func Open(ctx context.Context, driver, path string, logger *slog.Logger) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverFile, "":
		fs, err := NewFileStore(path, logger)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case DriverSQLite:
		db, err := OpenSQLite(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
