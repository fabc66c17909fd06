package update

import (
	"github.com/sandeepkv93/backlog/internal/scheduler"
	"github.com/sandeepkv93/backlog/internal/views"
)

func (m Model) renderRandomView() string {
	st := m.Engine.State()
	data := views.RandomPanelData{
		Total:    len(st.Active),
		Deferred: len(st.Deferred),
	}
	if sel, ok := m.Engine.Picked(); ok {
		data.Text = sel.Text
		data.Position = sel.Index + 1
		data.HasPick = true
	}
	return views.RenderRandomPanel(data)
}

func (m Model) renderListView() string {
	st := m.Engine.State()
	sel, hasPick := m.Engine.Picked()
	items := make([]views.ListItemData, 0, len(st.Active))
	for i, text := range st.Active {
		items = append(items, views.ListItemData{
			Position: i + 1,
			Text:     text,
			Cursor:   i == m.ListCursor && !m.Adding,
			Focus:    hasPick && sel.Index == i,
		})
	}
	quickAdd := ""
	if m.Adding {
		quickAdd = m.quickAddInput.View()
	}
	return views.RenderListPanel(views.ListPanelData{QuickAddView: quickAdd, Items: items})
}

func (m Model) renderFutureView() string {
	st := m.Engine.State()
	now := m.now()
	items := make([]views.FutureItemData, 0, len(st.Deferred))
	for i, entry := range st.Deferred {
		items = append(items, views.FutureItemData{
			Position:  i + 1,
			Text:      entry.Text,
			ReturnsIn: views.FormatRemaining(scheduler.Remaining(entry, now)),
			ReturnsAt: scheduler.NextReturn(entry).Local().Format("Mon Jan 2 15:04"),
			Cursor:    i == m.FutureCursor,
		})
	}
	return views.RenderFuturePanel(views.FuturePanelData{Items: items})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
