package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/backlog/internal/model"
	"github.com/sandeepkv93/backlog/internal/scheduler"
	"github.com/sandeepkv93/backlog/internal/views"
)

var errNoFocus = errors.New("no todo in focus")

func (m *Model) addTodo(text string) (string, error) {
	text = strings.TrimSpace(text)
	err := m.Engine.Add(m.ctx, text)
	if _, ok := m.Engine.Picked(); !ok {
		m.Engine.PickRandom()
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added: %s", text), nil
}

// markDone defers the active todo at index; days of 0 uses the default.
func (m *Model) markDone(index, days int) (string, error) {
	st := m.Engine.State()
	if err := model.CheckIndex(index, len(st.Active)); err != nil {
		return "", err
	}
	text := st.Active[index]
	var err error
	if days == 0 {
		days = m.Engine.DefaultReturnDays()
		err = m.Engine.MarkDone(m.ctx, index)
	} else {
		err = m.Engine.MarkDoneAfter(m.ctx, index, days)
	}
	m.syncWaker()
	m.clampCursors()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("done: %s (back in %d %s)", text, days, views.Plural(days, "day", "days")), nil
}

func (m *Model) markFocusDone(days int) (string, error) {
	sel, ok := m.Engine.Picked()
	if !ok {
		return "", errNoFocus
	}
	return m.markDone(sel.Index, days)
}

func (m *Model) deleteTodo(index int) (string, error) {
	st := m.Engine.State()
	if err := model.CheckIndex(index, len(st.Active)); err != nil {
		return "", err
	}
	text := st.Active[index]
	err := m.Engine.Delete(m.ctx, index)
	m.clampCursors()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted: %s", text), nil
}

func (m *Model) dropDeferred(index int) (string, error) {
	st := m.Engine.State()
	if err := model.CheckIndex(index, len(st.Deferred)); err != nil {
		return "", err
	}
	text := st.Deferred[index].Text
	err := m.Engine.DeleteDeferred(m.ctx, index)
	m.syncWaker()
	m.clampCursors()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("dropped: %s", text), nil
}

// editTodo removes the todo and reopens its text in the quick-add input.
func (m *Model) editTodo(index int) (string, error) {
	text, err := m.Engine.Edit(m.ctx, index)
	if text == "" && err != nil {
		return "", err
	}
	m.clampCursors()
	m.startAdding(text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("editing: %s", text), nil
}

func (m *Model) pickAnother() (string, error) {
	sel, ok := m.Engine.PickRandom()
	if !ok {
		return "nothing to pick", nil
	}
	return fmt.Sprintf("picked #%d: %s", sel.Index+1, sel.Text), nil
}

func (m *Model) checkDue() (string, error) {
	n, err := m.runDueCheck(m.now())
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "nothing due", nil
	}
	return m.Status.Text, nil
}

// runDueCheck returns due todos to the active list and reports them on the
// status line and through notifications.
func (m *Model) runDueCheck(now time.Time) (int, error) {
	before := m.Engine.State()
	n, err := m.Engine.CheckDue(m.ctx, now)
	if n > 0 {
		due, _ := scheduler.ComputeDue(before.Deferred, now)
		texts := make([]string, 0, len(due))
		for _, entry := range due {
			texts = append(texts, entry.Text)
		}
		body := fmt.Sprintf("%d %s back: %s", n, views.Plural(n, "todo", "todos"), strings.Join(texts, ", "))
		m.Status = StatusBar{Text: body}
		m.notify("Returned", body, "info")
		if _, ok := m.Engine.Picked(); !ok {
			m.Engine.PickRandom()
		}
		m.syncWaker()
		m.clampCursors()
	}
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Error", err.Error(), "error")
	}
	return n, err
}

// syncWaker reschedules the waker from the current deferred list.
func (m *Model) syncWaker() {
	if m.Waker == nil {
		return
	}
	err := m.Waker.Reset(scheduler.EventsFor(m.Engine.State().Deferred))
	if err != nil && !errors.Is(err, scheduler.ErrWakerStopped) {
		m.Status = StatusBar{Text: fmt.Sprintf("waker reset failed: %v", err), IsError: true}
	}
}

func (m *Model) clampCursors() {
	st := m.Engine.State()
	m.ListCursor = clamp(m.ListCursor, len(st.Active))
	m.FutureCursor = clamp(m.FutureCursor, len(st.Deferred))
}

func (m *Model) startAdding(prefill string) {
	m.CurrentView = ViewList
	m.Adding = true
	m.quickAddInput.SetValue(prefill)
	m.quickAddInput.CursorEnd()
	m.quickAddInput.Focus()
}

func (m *Model) applyResult(msg string, err error) {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: msg}
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Adding = false
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "add cancelled"}
	case "enter":
		text := m.quickAddInput.Value()
		res, err := m.addTodo(text)
		m.applyResult(res, err)
		if err == nil || !errors.Is(err, model.ErrInvalidInput) {
			m.Adding = false
			m.quickAddInput.SetValue("")
			m.quickAddInput.Blur()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.quickAddInput.SetValue(m.quickAddInput.Value() + string(msg.Runes))
			return m
		}
		m.quickAddInput, _ = m.quickAddInput.Update(msg)
	}
	return m
}

func (m Model) handleRandomKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case " ", "n", "r":
		m.applyResult(m.pickAnother())
	case "d", "enter":
		m.applyResult(m.markFocusDone(0))
	case "x":
		sel, ok := m.Engine.Picked()
		if !ok {
			m.applyResult("", errNoFocus)
			break
		}
		m.applyResult(m.deleteTodo(sel.Index))
	}
	return m
}

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	count := len(m.Engine.State().Active)
	switch msg.String() {
	case "j", "down":
		if m.ListCursor < count-1 {
			m.ListCursor++
		}
	case "k", "up":
		if m.ListCursor > 0 {
			m.ListCursor--
		}
	case "d", "enter":
		m.applyResult(m.markDone(m.ListCursor, 0))
	case "x":
		m.applyResult(m.deleteTodo(m.ListCursor))
	case "e":
		m.applyResult(m.editTodo(m.ListCursor))
	}
	return m
}

func (m Model) handleFutureKey(msg tea.KeyMsg) Model {
	count := len(m.Engine.State().Deferred)
	switch msg.String() {
	case "j", "down":
		if m.FutureCursor < count-1 {
			m.FutureCursor++
		}
	case "k", "up":
		if m.FutureCursor > 0 {
			m.FutureCursor--
		}
	case "x":
		m.applyResult(m.dropDeferred(m.FutureCursor))
	}
	return m
}
