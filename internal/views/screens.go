package views

import (
	"fmt"
	"strings"
	"time"
)

type RandomPanelData struct {
	Text     string
	Position int
	Total    int
	Deferred int
	HasPick  bool
}

type ListItemData struct {
	Position int
	Text     string
	Cursor   bool
	Focus    bool
}

type ListPanelData struct {
	QuickAddView string
	Items        []ListItemData
}

type FutureItemData struct {
	Position  int
	Text      string
	ReturnsIn string
	ReturnsAt string
	Cursor    bool
}

type FuturePanelData struct {
	Items []FutureItemData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	Guide       string
}

func RenderRandomPanel(data RandomPanelData) string {
	var b strings.Builder
	b.WriteString("random:\n")
	b.WriteString("actions: [space]another [d]done [x]delete [a]add\n\n")
	if !data.HasPick {
		if data.Deferred > 0 {
			b.WriteString(fmt.Sprintf("nothing to do right now (%d deferred)", data.Deferred))
		} else {
			b.WriteString("nothing to do, add something with [a]")
		}
		return b.String()
	}
	b.WriteString(focusStyle.Render(data.Text))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("#%d of %d active, %d deferred", data.Position, data.Total, data.Deferred)))
	return b.String()
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString("todos:\n")
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString("actions: [j/k]move [d]done [x]delete [e]edit [a]add\n")
	if len(data.Items) == 0 {
		b.WriteString("(no active todos)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.Cursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %2d. %s", cursor, item.Position, item.Text)
		if item.Focus {
			line = focusStyle.Render(line + " *")
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

func RenderFuturePanel(data FuturePanelData) string {
	var b strings.Builder
	b.WriteString("deferred:\n")
	b.WriteString("actions: [j/k]move [x]drop\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing deferred)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("\n%s %2d. %s\n     %s", cursor, item.Position, item.Text,
			dimStyle.Render(fmt.Sprintf("back in %s (%s)", item.ReturnsIn, item.ReturnsAt))))
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command:\n/%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if data.Guide != "" {
		out += "\n\n" + data.Guide
	}
	return out
}

// Plural picks one or many by count.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatRemaining renders a countdown like "1d 4h", "3h 12m" or "45s".
func FormatRemaining(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
