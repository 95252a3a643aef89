package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
)

type statusMsg string

type errMsg struct{ error }

// Async results carry the key of the view that issued them so a hidden,
// kept-alive view still receives its own response.

type articleLoadedMsg struct {
	viewKey string
	outcome article.Outcome
	err     error
}

type articleSubmittedMsg struct {
	viewKey string
	outcome article.Outcome
	err     error
}

type listLoadedMsg struct {
	viewKey string
	result  api.Result[api.Page[api.ArticleSummary]]
	err     error
}

type dashboardLoadedMsg struct {
	viewKey string
	result  api.Result[api.Dashboard]
	err     error
}

type configSavedMsg struct{ err error }

func viewKeyOf(msg tea.Msg) (string, bool) {
	switch m := msg.(type) {
	case articleLoadedMsg:
		return m.viewKey, true
	case articleSubmittedMsg:
		return m.viewKey, true
	case listLoadedMsg:
		return m.viewKey, true
	case dashboardLoadedMsg:
		return m.viewKey, true
	}
	return "", false
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg(text) }
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}
