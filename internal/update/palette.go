package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/backlog/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

// paletteHandlers binds each palette command to the model. The closures
// capture m by pointer so the caller sees their effects.
func (m *Model) paletteHandlers() commands.Handlers {
	result := func(msg string, err error) (commands.Result, error) {
		return commands.Result{Message: msg}, err
	}
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			return result(m.addTodo(a.Text))
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			if !d.HasIndex {
				return result(m.markFocusDone(d.Days))
			}
			return result(m.markDone(d.Index, d.Days))
		},
		Delete: func(a commands.IndexArgs) (commands.Result, error) {
			return result(m.deleteTodo(a.Index))
		},
		Drop: func(a commands.IndexArgs) (commands.Result, error) {
			return result(m.dropDeferred(a.Index))
		},
		Edit: func(a commands.IndexArgs) (commands.Result, error) {
			m.CurrentView = ViewList
			return result(m.editTodo(a.Index))
		},
		Pick: func() (commands.Result, error) {
			m.CurrentView = ViewRandom
			return result(m.pickAnother())
		},
		Check: func() (commands.Result, error) {
			return result(m.checkDue())
		},
	}
}
