package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry of the view switcher shown above the body.
type Tab struct {
	Key      string
	Label    string
	Selected bool
}

// Frame is everything the screen shows around the current view's body.
type Frame struct {
	Tabs     []Tab
	Active   int
	Deferred int
	Body     string
	Side     string
	Status   string
	IsError  bool
	Notice   string
	Keys     string
}

const (
	bodyWidth     = 58
	sideWidth     = 46
	soloBodyWidth = bodyWidth + sideWidth + 4
)

var (
	brandStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	tabOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("13")).Padding(0, 1)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("11")).PaddingLeft(1)
	keysStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderFrame lays out the tab bar, the body (widened when there is no side
// panel), then the status line, the latest notice and the key hints.
func RenderFrame(f Frame) string {
	lines := []string{renderTabBar(f)}

	if strings.TrimSpace(f.Side) == "" {
		lines = append(lines, panelStyle.Width(soloBodyWidth).Render(f.Body))
	} else {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Width(bodyWidth).Render(f.Body),
			panelStyle.Width(sideWidth).Render(f.Side),
		))
	}

	if f.Status != "" {
		if f.IsError {
			lines = append(lines, errorStyle.Render("! "+f.Status))
		} else {
			lines = append(lines, statusStyle.Render(f.Status))
		}
	}
	if f.Notice != "" {
		lines = append(lines, noticeStyle.Render(f.Notice))
	}
	if f.Keys != "" {
		lines = append(lines, keysStyle.Render(f.Keys))
	}
	return strings.Join(lines, "\n")
}

func renderTabBar(f Frame) string {
	parts := []string{brandStyle.Render("backlog")}
	for _, tab := range f.Tabs {
		label := fmt.Sprintf("%s %s", tab.Key, tab.Label)
		if tab.Selected {
			parts = append(parts, tabOnStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	counts := countStyle.Render(fmt.Sprintf("%d active, %d deferred", f.Active, f.Deferred))
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "), "  ", counts)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
