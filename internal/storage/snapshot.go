package storage

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/backlog/internal/model"
)

// doneDateLayout matches the ISO-8601 form browsers emit for dates: UTC with
// millisecond precision.
const doneDateLayout = "2006-01-02T15:04:05.000Z07:00"

var doneDateParseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// Snapshot is the persisted form of the backlog.
type Snapshot struct {
	Todos       []string     `json:"todos"`
	FutureTodos []FutureTodo `json:"futureTodos"`
}

// FutureTodo is a deferred todo as stored. ReturnInDays is zero when the
// stored value omitted it or held something unusable.
type FutureTodo struct {
	Todo         string    `json:"todo"`
	DoneDate     time.Time `json:"doneDate"`
	ReturnInDays int       `json:"returnInDays"`
}

func (f FutureTodo) MarshalJSON() ([]byte, error) {
	type wire struct {
		Todo         string `json:"todo"`
		DoneDate     string `json:"doneDate"`
		ReturnInDays int    `json:"returnInDays"`
	}
	return json.Marshal(wire{
		Todo:         f.Todo,
		DoneDate:     f.DoneDate.UTC().Format(doneDateLayout),
		ReturnInDays: f.ReturnInDays,
	})
}

// WithDefaults fills a missing futureTodos list and non-positive intervals.
func (s Snapshot) WithDefaults(returnInDays int) Snapshot {
	out := Snapshot{
		Todos:       make([]string, len(s.Todos)),
		FutureTodos: make([]FutureTodo, len(s.FutureTodos)),
	}
	copy(out.Todos, s.Todos)
	copy(out.FutureTodos, s.FutureTodos)
	for i := range out.FutureTodos {
		if out.FutureTodos[i].ReturnInDays < 1 {
			out.FutureTodos[i].ReturnInDays = returnInDays
		}
	}
	return out
}

// EncodeSnapshot renders s in the stored JSON shape. Nil lists encode as [].
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Todos == nil {
		s.Todos = []string{}
	}
	if s.FutureTodos == nil {
		s.FutureTodos = []FutureTodo{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot reads a stored value leniently. ok is false when data is
// not a JSON object at all; the caller should treat that as no stored data.
// Entries that cannot be recovered are skipped and counted in dropped.
func DecodeSnapshot(data []byte) (snap Snapshot, dropped int, ok bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Snapshot{}, 0, false
	}

	snap = Snapshot{Todos: []string{}, FutureTodos: []FutureTodo{}}

	var todos []json.RawMessage
	if err := json.Unmarshal(raw["todos"], &todos); err == nil {
		for _, item := range todos {
			var text string
			if err := json.Unmarshal(item, &text); err != nil || strings.TrimSpace(text) == "" {
				dropped++
				continue
			}
			snap.Todos = append(snap.Todos, text)
		}
	}

	var future []json.RawMessage
	if err := json.Unmarshal(raw["futureTodos"], &future); err == nil {
		for _, item := range future {
			entry, entryOK := decodeFutureTodo(item)
			if !entryOK {
				dropped++
				continue
			}
			snap.FutureTodos = append(snap.FutureTodos, entry)
		}
	}
	return snap, dropped, true
}

func decodeFutureTodo(data json.RawMessage) (FutureTodo, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return FutureTodo{}, false
	}
	var text string
	if err := json.Unmarshal(fields["todo"], &text); err != nil || strings.TrimSpace(text) == "" {
		return FutureTodo{}, false
	}
	doneAt, ok := decodeDoneDate(fields["doneDate"])
	if !ok {
		return FutureTodo{}, false
	}
	return FutureTodo{
		Todo:         text,
		DoneDate:     doneAt,
		ReturnInDays: decodeReturnInDays(fields["returnInDays"]),
	}, true
}

func decodeDoneDate(data json.RawMessage) (time.Time, bool) {
	if len(data) == 0 {
		return time.Time{}, false
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(n).UTC(), true
	}
	for _, layout := range doneDateParseLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm.UTC(), true
		}
	}
	return time.Time{}, false
}

func decodeReturnInDays(data json.RawMessage) int {
	if len(data) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		n = parsed
	}
	if math.IsNaN(n) || n < 1 || n > model.MaxReturnInDays {
		return 0
	}
	return int(n)
}
