package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

var ErrNotFound = errors.New("storage: not found")

// SnapshotStore persists the whole backlog as a single value.
//
// Load reports false when nothing usable is stored. Malformed values are
// normalized or treated as absent; only I/O failures are returned as errors.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, s Snapshot) error
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decodeStored runs DecodeSnapshot and logs what had to be thrown away.
func decodeStored(logger *slog.Logger, source string, data []byte) (Snapshot, bool) {
	snap, dropped, ok := DecodeSnapshot(data)
	if !ok {
		logger.Warn("stored snapshot unreadable, starting empty", "source", source, "bytes", len(data))
		return Snapshot{}, false
	}
	if dropped > 0 {
		logger.Warn("skipped malformed snapshot entries", "source", source, "dropped", dropped)
	}
	return snap, true
}
