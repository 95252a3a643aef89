package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/i18n"
)

const (
	dashboardPath = "/dashboard"
	trendDays     = 7
)

type dashboardView struct {
	page
	data    api.Dashboard
	loading int
}

func newDashboardView(d *deps, tr *i18n.Translator) *dashboardView {
	return &dashboardView{page: page{d: d, key: dashboardPath, titleKey: "dashboard.title", tr: tr}}
}

func (v *dashboardView) Key() string { return v.key }

func (v *dashboardView) Init() tea.Cmd {
	if err := v.mount(); err != nil {
		return errCmd(err)
	}
	return v.fetch()
}

func (v *dashboardView) OnActivate() tea.Cmd {
	if err := v.Register(); err != nil {
		return errCmd(err)
	}
	return nil
}

func (v *dashboardView) OnDeactivate() {}

func (v *dashboardView) Busy() bool { return v.loading > 0 }

func (v *dashboardView) Help() string { return renderHelp(v.d.keys.Reload, v.d.keys.NewArticle) }

func (v *dashboardView) fetch() tea.Cmd {
	v.loading++
	ctx, b, key := v.d.ctx, v.d.backend, v.key
	return func() tea.Msg {
		res, err := b.DataTrends(ctx, api.TrendQuery{Days: trendDays})
		return dashboardLoadedMsg{viewKey: key, result: res, err: err}
	}
}

func (v *dashboardView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading--
		if msg.err != nil {
			return errCmd(fmt.Errorf("dashboard: %w", msg.err))
		}
		if !msg.result.OK() {
			return errCmd(errors.New(v.tr.T("public.requestFailed", msg.result.Message)))
		}
		v.data = msg.result.Data
	case tea.KeyMsg:
		if key.Matches(msg, v.d.keys.Reload) {
			return v.fetch()
		}
	}
	return nil
}

func (v *dashboardView) View(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.title(v.tr)))
	b.WriteString("\n\n")
	b.WriteString(v.tr.T("dashboard.total", v.data.Total))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(v.tr.T("dashboard.trends")))
	b.WriteString("\n")

	peak := 0
	for _, p := range v.data.Trends {
		peak = max(peak, p.Count)
	}
	barW := max(10, width-20)
	for _, p := range v.data.Trends {
		n := 0
		if peak > 0 {
			n = p.Count * barW / peak
		}
		fmt.Fprintf(&b, "%s %s %d\n", p.Day, barStyle.Render(strings.Repeat("█", n)), p.Count)
	}
	return b.String()
}
