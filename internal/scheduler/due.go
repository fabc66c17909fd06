package scheduler

import (
	"time"

	"github.com/sandeepkv93/backlog/internal/model"
)

const msPerDay = int64(86_400_000)

// IsDue reports whether more than ReturnInDays have elapsed since DoneAt.
// The comparison is in whole milliseconds and strict, so an entry sitting
// exactly on its boundary is not yet due.
func IsDue(entry model.DeferredEntry, now time.Time) bool {
	elapsed := now.UnixMilli() - entry.DoneAt.UnixMilli()
	return elapsed > int64(entry.ReturnInDays)*msPerDay
}

// ComputeDue partitions deferred into entries that are due at now and the
// rest. Both results keep the relative order of the input.
func ComputeDue(deferred []model.DeferredEntry, now time.Time) (due, remaining []model.DeferredEntry) {
	due = make([]model.DeferredEntry, 0)
	remaining = make([]model.DeferredEntry, 0, len(deferred))
	for _, entry := range deferred {
		if IsDue(entry, now) {
			due = append(due, entry)
			continue
		}
		remaining = append(remaining, entry)
	}
	return due, remaining
}

// NextReturn is the first millisecond at which entry becomes due.
func NextReturn(entry model.DeferredEntry) time.Time {
	boundary := time.UnixMilli(entry.DoneAt.UnixMilli() + int64(entry.ReturnInDays)*msPerDay)
	return boundary.Add(time.Millisecond).UTC()
}

// Remaining is the time left until entry becomes due, never negative.
func Remaining(entry model.DeferredEntry, now time.Time) time.Duration {
	left := NextReturn(entry).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// EventsFor builds one ReturnEvent per deferred entry, due at its NextReturn.
func EventsFor(deferred []model.DeferredEntry) []ReturnEvent {
	out := make([]ReturnEvent, 0, len(deferred))
	for _, entry := range deferred {
		out = append(out, ReturnEvent{Text: entry.Text, DueAt: NextReturn(entry)})
	}
	return out
}
