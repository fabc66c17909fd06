package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/backlog/internal/scheduler"
	"github.com/sandeepkv93/backlog/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{dueTickCmd(m.dueInterval)}
	if m.Waker != nil {
		cmds = append(cmds, waitForReturnCmd(m.Waker.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Adding {
			return m.handleQuickAddKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Random:
			m.CurrentView = ViewRandom
			return m, nil
		case m.Keys.List:
			m.CurrentView = ViewList
			return m, nil
		case m.Keys.Future:
			m.CurrentView = ViewFuture
			return m, nil
		case m.Keys.Add:
			m.startAdding("")
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewRandom:
			return m.handleRandomKey(typed), nil
		case ViewList:
			return m.handleListKey(typed), nil
		case ViewFuture:
			return m.handleFutureKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ReturnDueMsg:
		now := m.now()
		if now.Before(typed.Event.DueAt) {
			now = typed.Event.DueAt
		}
		m.runDueCheck(now)
		if m.Waker != nil {
			return m, waitForReturnCmd(m.Waker.C())
		}
		return m, nil
	case DueTickMsg:
		m.runDueCheck(m.now())
		return m, dueTickCmd(m.dueInterval)
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}

	body := ""
	switch m.CurrentView {
	case ViewRandom:
		body = m.renderRandomView()
	case ViewList:
		body = m.renderListView()
	case ViewFuture:
		body = m.renderFutureView()
	}
	side := strings.TrimSpace(m.renderCommandPalette() + "\n" + m.renderHelpIfVisible())

	notice := ""
	if len(m.Notifications) > 0 {
		last := m.Notifications[len(m.Notifications)-1]
		notice = fmt.Sprintf("%s @ %s: %s", strings.ToLower(last.Title), last.At.Local().Format("15:04:05"), last.Body)
	}

	keys := fmt.Sprintf("%s add | / cmd | %s help | %s quit", m.Keys.Add, m.Keys.Help, m.Keys.Quit)
	tabs := []views.Tab{
		{Key: m.Keys.Random, Label: "random", Selected: m.CurrentView == ViewRandom},
		{Key: m.Keys.List, Label: "list", Selected: m.CurrentView == ViewList},
		{Key: m.Keys.Future, Label: "future", Selected: m.CurrentView == ViewFuture},
	}

	st := m.Engine.State()
	return views.RenderFrame(views.Frame{
		Tabs:     tabs,
		Active:   len(st.Active),
		Deferred: len(st.Deferred),
		Body:     body,
		Side:     side,
		Status:   status,
		IsError:  m.Status.IsError,
		Notice:   notice,
		Keys:     keys,
	})
}

func waitForReturnCmd(ch <-chan scheduler.ReturnEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReturnDueMsg{Event: ev}
	}
}

func dueTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return DueTickMsg{At: t} })
}

func isKnownView(v View) bool {
	switch v {
	case ViewRandom, ViewList, ViewFuture:
		return true
	default:
		return false
	}
}
