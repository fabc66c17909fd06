package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/backlog/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const paletteGuide = `
### Commands

| command | effect |
|---|---|
| ` + "`/add <text>`" + ` | add a todo |
| ` + "`/done [n] [days]`" + ` | defer todo *n*, or the one in focus |
| ` + "`/delete <n>`" + ` | delete todo *n* |
| ` + "`/drop <n>`" + ` | drop deferred todo *n* |
| ` + "`/edit <n>`" + ` | reopen todo *n* for editing |
| ` + "`/pick`" + ` | pick another todo |
| ` + "`/check`" + ` | return due todos now |
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Guide: views.RenderMarkdown(paletteGuide),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Random, Action: "switch to Random"},
		{Key: m.Keys.List, Action: "switch to List"},
		{Key: m.Keys.Future, Action: "switch to Future"},
		{Key: m.Keys.Add, Action: "add a todo"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewRandom:
		return []KeyBinding{
			{Key: "space", Action: "pick another"},
			{Key: "d", Action: "mark done"},
			{Key: "x", Action: "delete"},
		}
	case ViewList:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "d", Action: "mark done"},
			{Key: "x", Action: "delete"},
			{Key: "e", Action: "edit"},
		}
	case ViewFuture:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "x", Action: "drop deferred todo"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
