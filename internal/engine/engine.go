// Package engine owns the backlog: the active todos, the deferred ones and
// the todo currently in focus. Every mutation ends in exactly one snapshot
// write; rejected calls change nothing and write nothing.
//
// An Engine is not safe for concurrent use and must not be called from
// inside its own store's Save.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/sandeepkv93/backlog/internal/model"
	"github.com/sandeepkv93/backlog/internal/picker"
	"github.com/sandeepkv93/backlog/internal/scheduler"
	"github.com/sandeepkv93/backlog/internal/storage"
)

type Engine struct {
	store       storage.SnapshotStore
	clock       model.Clock
	rng         picker.RandomSource
	logger      *slog.Logger
	defaultDays int
	state       model.State
	picked      picker.Selection
	hasPick     bool
	caughtUp    int
}

type Option func(*Engine)

func WithClock(c model.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithRandom(r picker.RandomSource) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultReturnDays sets the interval used when MarkDone is called
// without one and when stored entries lack one. Values below 1 are ignored.
func WithDefaultReturnDays(days int) Option {
	return func(e *Engine) {
		if days >= 1 {
			e.defaultDays = days
		}
	}
}

// New returns an engine with an empty backlog. Nothing is read from store
// until Load is called.
func New(store storage.SnapshotStore, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		clock:       model.SystemClock{},
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultDays: model.DefaultReturnInDays,
		state:       model.State{Active: []string{}, Deferred: []model.DeferredEntry{}},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open builds an engine and loads it from store.
func Open(ctx context.Context, store storage.SnapshotStore, opts ...Option) (*Engine, error) {
	e := New(store, opts...)
	if err := e.Load(ctx); err != nil {
		return e, err
	}
	return e, nil
}

// Load replaces the in-memory backlog with the stored snapshot, catches up
// on entries that became due while nothing was running and draws a focus.
// A load error leaves an empty backlog; a failed catch-up write is reported
// as ErrPersistenceFailure with the caught-up state kept in memory.
func (e *Engine) Load(ctx context.Context) error {
	snap, ok, err := e.store.Load(ctx)
	if err != nil {
		e.state = model.State{Active: []string{}, Deferred: []model.DeferredEntry{}}
		e.clearPick()
		e.caughtUp = 0
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		snap = storage.Snapshot{}
	}
	st := stateFromSnapshot(snap.WithDefaults(e.defaultDays))
	if err := st.Validate(); err != nil {
		e.logger.Warn("stored backlog has unusable entries, skipping them", "err", err)
		st = usableEntries(st)
	}
	e.state = st
	e.logger.Debug("snapshot loaded",
		"present", ok,
		"active", len(e.state.Active),
		"deferred", len(e.state.Deferred),
	)

	e.caughtUp, err = e.CheckDue(ctx, e.clock.Now())
	e.PickRandom()
	return err
}

// CaughtUp reports how many deferred todos the last Load returned.
func (e *Engine) CaughtUp() int { return e.caughtUp }

// State returns a copy of the backlog.
func (e *Engine) State() model.State {
	return e.state.Clone()
}

func (e *Engine) DefaultReturnDays() int { return e.defaultDays }

// Add appends text to the active list. The focus is left as it is.
func (e *Engine) Add(ctx context.Context, text string) error {
	if err := model.ValidateText(text); err != nil {
		return err
	}
	e.state.Active = append(e.state.Active, text)
	e.logger.Debug("todo added", "text", text, "active", len(e.state.Active))
	return e.persist(ctx, "add")
}

// Delete removes the active todo at index and draws a new focus.
func (e *Engine) Delete(ctx context.Context, index int) error {
	if err := model.CheckIndex(index, len(e.state.Active)); err != nil {
		return err
	}
	text := e.state.Active[index]
	e.state.Active = removeAt(e.state.Active, index)
	e.logger.Debug("todo deleted", "text", text, "index", index)
	e.PickRandom()
	return e.persist(ctx, "delete")
}

// MarkDone defers the active todo at index for the default interval.
func (e *Engine) MarkDone(ctx context.Context, index int) error {
	return e.markDone(ctx, index, e.defaultDays)
}

// MarkDoneAfter defers the active todo at index for days; days must be at least 1.
func (e *Engine) MarkDoneAfter(ctx context.Context, index int, days int) error {
	if err := model.ValidateInterval(days); err != nil {
		return err
	}
	return e.markDone(ctx, index, days)
}

func (e *Engine) markDone(ctx context.Context, index int, days int) error {
	if err := model.CheckIndex(index, len(e.state.Active)); err != nil {
		return err
	}
	entry := model.DeferredEntry{
		Text:         e.state.Active[index],
		DoneAt:       e.clock.Now().UTC().Truncate(time.Millisecond),
		ReturnInDays: days,
	}
	e.state.Active = removeAt(e.state.Active, index)
	e.state.Deferred = append(e.state.Deferred, entry)
	e.logger.Debug("todo deferred", "text", entry.Text, "index", index, "return_in_days", days)
	e.PickRandom()
	return e.persist(ctx, "mark_done")
}

// DeleteDeferred drops the deferred entry at index for good.
func (e *Engine) DeleteDeferred(ctx context.Context, index int) error {
	if err := model.CheckIndex(index, len(e.state.Deferred)); err != nil {
		return err
	}
	text := e.state.Deferred[index].Text
	e.state.Deferred = removeAt(e.state.Deferred, index)
	e.logger.Debug("deferred todo deleted", "text", text, "index", index)
	return e.persist(ctx, "delete_deferred")
}

// Edit removes the active todo at index and hands its text back so the
// caller can re-submit an amended version through Add. A deferral interval
// is not carried over.
func (e *Engine) Edit(ctx context.Context, index int) (string, error) {
	if err := model.CheckIndex(index, len(e.state.Active)); err != nil {
		return "", err
	}
	text := e.state.Active[index]
	return text, e.Delete(ctx, index)
}

// ApplyDue moves due entries back to the end of the active list, in the
// given order, and removes them from the deferred list.
func (e *Engine) ApplyDue(ctx context.Context, due []model.DeferredEntry) error {
	if len(due) == 0 {
		return nil
	}
	remaining := make([]model.DeferredEntry, 0, len(e.state.Deferred))
	pending := make([]model.DeferredEntry, len(due))
	copy(pending, due)
	for _, entry := range e.state.Deferred {
		if i := indexOfEntry(pending, entry); i >= 0 {
			pending = removeAt(pending, i)
			continue
		}
		remaining = append(remaining, entry)
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %d due entries are not deferred", model.ErrInvalidIndex, len(pending))
	}
	for _, entry := range due {
		e.state.Active = append(e.state.Active, entry.Text)
	}
	e.state.Deferred = remaining
	e.logger.Info("deferred todos returned", "count", len(due), "active", len(e.state.Active))
	return e.persist(ctx, "apply_due")
}

// CheckDue returns every deferred entry that is due at now to the active
// list and reports how many moved. Nothing is written when none are due.
func (e *Engine) CheckDue(ctx context.Context, now time.Time) (int, error) {
	due, _ := scheduler.ComputeDue(e.state.Deferred, now)
	if len(due) == 0 {
		return 0, nil
	}
	if err := e.ApplyDue(ctx, due); err != nil {
		return len(due), err
	}
	return len(due), nil
}

// PickRandom draws a new focus from the active list. It reports false, and
// clears the focus, when the list is empty.
func (e *Engine) PickRandom() (picker.Selection, bool) {
	sel, ok := picker.Pick(e.state.Active, e.rng)
	if !ok {
		e.clearPick()
		return picker.Selection{}, false
	}
	e.picked, e.hasPick = sel, true
	return sel, true
}

// Picked returns the current focus without drawing again.
func (e *Engine) Picked() (picker.Selection, bool) {
	return e.picked, e.hasPick
}

func (e *Engine) clearPick() {
	e.picked, e.hasPick = picker.Selection{}, false
}

func (e *Engine) snapshot() storage.Snapshot {
	snap := storage.Snapshot{
		Todos:       make([]string, len(e.state.Active)),
		FutureTodos: make([]storage.FutureTodo, 0, len(e.state.Deferred)),
	}
	copy(snap.Todos, e.state.Active)
	for _, entry := range e.state.Deferred {
		snap.FutureTodos = append(snap.FutureTodos, storage.FutureTodo{
			Todo:         entry.Text,
			DoneDate:     entry.DoneAt,
			ReturnInDays: entry.ReturnInDays,
		})
	}
	return snap
}

func (e *Engine) persist(ctx context.Context, op string) error {
	if err := e.store.Save(ctx, e.snapshot()); err != nil {
		e.logger.Error("snapshot save failed", "op", op, "err", err)
		return fmt.Errorf("%w: %s: %w", model.ErrPersistenceFailure, op, err)
	}
	return nil
}

func stateFromSnapshot(snap storage.Snapshot) model.State {
	st := model.State{
		Active:   make([]string, len(snap.Todos)),
		Deferred: make([]model.DeferredEntry, 0, len(snap.FutureTodos)),
	}
	copy(st.Active, snap.Todos)
	for _, f := range snap.FutureTodos {
		st.Deferred = append(st.Deferred, model.DeferredEntry{
			Text:         f.Todo,
			DoneAt:       f.DoneDate.UTC(),
			ReturnInDays: f.ReturnInDays,
		})
	}
	return st
}

func usableEntries(st model.State) model.State {
	out := model.State{Active: []string{}, Deferred: []model.DeferredEntry{}}
	for _, text := range st.Active {
		if model.ValidateText(text) == nil {
			out.Active = append(out.Active, text)
		}
	}
	for _, entry := range st.Deferred {
		if entry.Validate() == nil {
			out.Deferred = append(out.Deferred, entry)
		}
	}
	return out
}

func removeAt[T any](items []T, index int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}

func indexOfEntry(items []model.DeferredEntry, target model.DeferredEntry) int {
	for i, item := range items {
		if item.Text == target.Text && item.ReturnInDays == target.ReturnInDays && item.DoneAt.Equal(target.DoneAt) {
			return i
		}
	}
	return -1
}
