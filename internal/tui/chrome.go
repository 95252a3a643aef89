package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	sidebarWidth  = 22
)

func (a *App) View() string {
	width, height := a.width, a.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	header := a.renderTabs(width)
	crumbs := breadcrumbStyle.Render(strings.Join(a.store.Breadcrumb(), " / "))
	bodyH := max(5, height-4)
	bodyW := width
	showSidebar := !a.menuEnv().Skip()
	if showSidebar {
		bodyW = max(20, width-sidebarWidth-2)
	}

	body := ""
	if v := a.active(); v != nil {
		body = v.View(bodyW, bodyH)
	}
	if showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(bodyH), " ", body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, crumbs, body, a.renderFooter(width))
}

func (a *App) renderTabs(width int) string {
	snap := a.store.Tabs().Snapshot()
	locale := a.tr.Locale()
	parts := make([]string, 0, len(snap.Tabs))
	for _, e := range snap.Tabs {
		label := e.LabelFor(locale)
		if e.Key == snap.ActiveKey {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return headerBarStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (a *App) renderSidebar(height int) string {
	lines := a.tree.Lines(a.store.Menu(), a.translate)
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		indent := strings.Repeat("  ", l.Depth)
		label := l.Label
		switch {
		case l.Group && l.Open:
			rows = append(rows, indent+menuGroupStyle.Render("▾ "+label))
		case l.Group:
			rows = append(rows, indent+menuGroupStyle.Render("▸ "+label))
		case l.Selected:
			rows = append(rows, indent+menuSelectedStyle.Render("● "+label))
		default:
			rows = append(rows, indent+menuItemStyle.Render("  "+label))
		}
	}
	return sidebarStyle.Width(sidebarWidth).Height(height).Render(strings.Join(rows, "\n"))
}

func (a *App) renderFooter(width int) string {
	var status string
	switch {
	case a.gotoActive:
		status = a.gotoInput.View()
	case a.busy():
		status = a.spinner.View() + " " + a.tr.T("public.loading")
	case a.statusErr:
		status = statusErrBarStyle.Render(a.status)
	case a.status != "":
		status = statusBarStyle.Render(a.status)
	}
	k := a.d.keys
	help := renderHelp(k.CloseTab, k.NextTab, k.Goto, k.Locale, k.Sidebar, k.Quit)
	if v := a.active(); v != nil {
		help = v.Help() + "  " + help
	}
	return lipgloss.NewStyle().Width(width).Render(status) + "\n" + help
}
