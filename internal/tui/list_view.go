package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/i18n"
)

const listPageSize = 10

// listView is the article listing; the create/edit form closes back here.
type listView struct {
	page
	items   []api.ArticleSummary
	total   int
	pageNo  int
	cursor  int
	loading int
	loaded  bool
}

func newListView(d *deps, tr *i18n.Translator) *listView {
	return &listView{
		page: page{
			d:        d,
			key:      article.FatherPath,
			titleKey: "content.articleTitle",
			crumbs:   []string{"content.contentTitle"},
			tr:       tr,
		},
		pageNo: 1,
	}
}

func (v *listView) Key() string { return v.key }

func (v *listView) Init() tea.Cmd {
	if err := v.mount(); err != nil {
		return errCmd(err)
	}
	v.d.store.ConsumeRefresh()
	return v.fetch()
}

// OnActivate reloads when a form closed with a refresh request.
func (v *listView) OnActivate() tea.Cmd {
	if err := v.Register(); err != nil {
		return errCmd(err)
	}
	if v.d.store.ConsumeRefresh() {
		return v.fetch()
	}
	return nil
}

func (v *listView) OnDeactivate() {}

func (v *listView) Busy() bool { return v.loading > 0 }

func (v *listView) Help() string {
	k := v.d.keys
	return renderHelp(k.Open, k.NewArticle, k.Reload, k.PrevPage, k.NextPage)
}

func (v *listView) fetch() tea.Cmd {
	v.loading++
	ctx, b, key := v.d.ctx, v.d.backend, v.key
	q := api.PageQuery{Page: v.pageNo, PageSize: listPageSize}
	return func() tea.Msg {
		res, err := b.ListArticles(ctx, q)
		return listLoadedMsg{viewKey: key, result: res, err: err}
	}
}

func (v *listView) pages() int {
	if v.total == 0 {
		return 1
	}
	return (v.total + listPageSize - 1) / listPageSize
}

func (v *listView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg:
		v.loading--
		if msg.err != nil {
			return errCmd(fmt.Errorf("list articles: %w", msg.err))
		}
		if !msg.result.OK() {
			return errCmd(errors.New(v.tr.T("public.requestFailed", msg.result.Message)))
		}
		v.items = msg.result.Data.Items
		v.total = msg.result.Data.Total
		v.loaded = true
		if v.cursor >= len(v.items) {
			v.cursor = max(0, len(v.items)-1)
		}
		return nil
	case tea.KeyMsg:
		k := v.d.keys
		switch {
		case key.Matches(msg, k.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, k.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case key.Matches(msg, k.Open):
			if v.cursor < len(v.items) {
				v.d.mailbox.Navigate(article.RouteFor(v.items[v.cursor].ID))
			}
		case key.Matches(msg, k.NewArticle), msg.String() == "n":
			v.d.mailbox.Navigate(article.RouteFor(""))
		case key.Matches(msg, k.Reload):
			return v.fetch()
		case key.Matches(msg, k.NextPage):
			if v.pageNo < v.pages() {
				v.pageNo++
				v.cursor = 0
				return v.fetch()
			}
		case key.Matches(msg, k.PrevPage):
			if v.pageNo > 1 {
				v.pageNo--
				v.cursor = 0
				return v.fetch()
			}
		}
	}
	return nil
}

func (v *listView) View(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.title(v.tr)))
	b.WriteString("\n\n")
	if v.loaded && len(v.items) == 0 {
		b.WriteString(mutedStyle.Render(v.tr.T("content.empty")))
		return b.String()
	}

	idW, countW, dateW := 10, 8, 16
	contentW := max(10, width-idW-countW-dateW-8)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-*s %-*s %*s  %-*s",
		idW, "id", contentW, v.tr.T("content.content"), countW, v.tr.T("content.transferCount"), dateW, v.tr.T("content.updatedAt"))))
	b.WriteString("\n")
	for i, it := range v.items {
		line := fmt.Sprintf("%-*s %-*s %*d  %-*s",
			idW, truncate(it.ID, idW),
			contentW, truncate(plain(it.Content), contentW),
			countW, it.TransferCount,
			dateW, it.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == v.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(v.tr.T("public.page", v.pageNo, v.pages())))
	return b.String()
}

// plain strips markup tags so stored HTML reads as text in a table cell.
func plain(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
