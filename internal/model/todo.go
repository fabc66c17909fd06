package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultReturnInDays is used when a deferral does not name its own interval.
const DefaultReturnInDays = 2

// MaxReturnInDays is the longest interval that survives a save and reload.
const MaxReturnInDays = math.MaxInt32

// Day is the unit of a return interval.
const Day = 24 * time.Hour

var (
	ErrInvalidInput       = errors.New("model: todo text is required")
	ErrInvalidIndex       = errors.New("model: index out of range")
	ErrInvalidInterval    = errors.New("model: return interval must be between 1 and 2147483647 days")
	ErrPersistenceFailure = errors.New("model: snapshot not saved")
)

// ValidateText rejects empty and whitespace-only todo text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateInterval rejects return intervals shorter than a day or longer
// than MaxReturnInDays.
func ValidateInterval(days int) error {
	if days < 1 || days > MaxReturnInDays {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, days)
	}
	return nil
}

// CheckIndex reports ErrInvalidIndex unless 0 <= index < length.
func CheckIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, index, length)
	}
	return nil
}

// DeferredEntry is a todo parked out of the active list until its interval elapses.
type DeferredEntry struct {
	Text         string
	DoneAt       time.Time
	ReturnInDays int
}

func (e DeferredEntry) Validate() error {
	if err := ValidateText(e.Text); err != nil {
		return err
	}
	if e.DoneAt.IsZero() {
		return errors.New("model: deferred entry done_at is required")
	}
	return ValidateInterval(e.ReturnInDays)
}

// State is the full mutable backlog: the active todos and the deferred ones.
type State struct {
	Active   []string
	Deferred []DeferredEntry
}

// Clone returns a copy that shares no backing arrays with s.
func (s State) Clone() State {
	out := State{
		Active:   make([]string, len(s.Active)),
		Deferred: make([]DeferredEntry, len(s.Deferred)),
	}
	copy(out.Active, s.Active)
	copy(out.Deferred, s.Deferred)
	return out
}

func (s State) Validate() error {
	for i, text := range s.Active {
		if err := ValidateText(text); err != nil {
			return fmt.Errorf("active[%d]: %w", i, err)
		}
	}
	for i, entry := range s.Deferred {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("deferred[%d]: %w", i, err)
		}
	}
	return nil
}
