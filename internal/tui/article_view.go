package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/i18n"
)

const (
	focusContent = iota
	focusTransfer
)

// articleView is the create/edit form. Widget state lives here; the
// controller owns the workflow and the canonical draft.
type articleView struct {
	d    *deps
	ctrl *article.Controller
	tr   *i18n.Translator

	content  textarea.Model
	items    []article.TransferItem
	selected map[string]bool
	cursor   int
	focus    int

	// resetPending is raised by ResetForm, which the controller may call
	// from a command goroutine; the widgets are cleared on the next Update.
	resetPending atomic.Bool
}

func newArticleView(d *deps, uri string, tr *i18n.Translator) (*articleView, error) {
	v := &articleView{
		d:        d,
		tr:       tr,
		items:    article.TransferSource(),
		selected: make(map[string]bool),
	}
	ctrl, err := article.New(article.Options{
		URI:        uri,
		Backend:    d.backend,
		Store:      d.store,
		Checker:    d.checker,
		Translator: tr,
		Notifier:   d.mailbox,
		Form:       v,
		Env:        d.env,
		Logger:     d.log,
	})
	if err != nil {
		return nil, err
	}
	v.ctrl = ctrl

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Focus()
	v.content = ta
	v.fill(ctrl.Draft())
	return v, nil
}

func (v *articleView) Key() string { return v.ctrl.Key() }

func (v *articleView) Init() tea.Cmd {
	perm, err := v.ctrl.Mount()
	if err != nil {
		return errCmd(err)
	}
	if !perm.Granted {
		return nil
	}
	return v.load()
}

func (v *articleView) load() tea.Cmd {
	ctx, ctrl, key := v.d.ctx, v.ctrl, v.Key()
	return func() tea.Msg {
		out, err := ctrl.Load(ctx)
		return articleLoadedMsg{viewKey: key, outcome: out, err: err}
	}
}

func (v *articleView) OnActivate() tea.Cmd {
	if err := v.ctrl.OnReactivate(); err != nil {
		return errCmd(err)
	}
	if v.focus == focusContent {
		v.content.Focus()
	}
	return nil
}

func (v *articleView) OnDeactivate() { v.content.Blur() }

func (v *articleView) SetTranslator(tr *i18n.Translator) {
	if tr == nil {
		return
	}
	v.tr = tr
	v.ctrl.SetTranslator(tr)
}

func (v *articleView) Register() error { return v.ctrl.Register() }

func (v *articleView) Busy() bool { return v.ctrl.Loading() }

// Close leaves the form without saving.
func (v *articleView) Close() error { return v.ctrl.GoBack(false) }

// ResetForm implements article.FormResetter. The controller draft returns
// to its baseline at once; the widgets follow on the next Update.
func (v *articleView) ResetForm() {
	v.ctrl.ResetDraft()
	v.resetPending.Store(true)
}

// granted re-evaluates the permission so a changed grant shows on the next
// render.
func (v *articleView) granted() bool { return v.ctrl.Authorize().Granted }

func (v *articleView) Help() string {
	k := v.d.keys
	return renderHelp(k.Submit, k.Back, k.FocusNext, k.Toggle)
}

func (v *articleView) Update(msg tea.Msg) tea.Cmd {
	if v.resetPending.CompareAndSwap(true, false) {
		v.fill(v.ctrl.Baseline())
		v.cursor = 0
	}
	switch msg := msg.(type) {
	case articleLoadedMsg:
		return v.loaded(msg)
	case articleSubmittedMsg:
		return v.submitted(msg)
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *articleView) loaded(msg articleLoadedMsg) tea.Cmd {
	if msg.err != nil {
		return errCmd(fmt.Errorf("load article: %w", msg.err))
	}
	if msg.outcome.OK() {
		v.fill(v.ctrl.Draft())
	}
	return nil
}

func (v *articleView) submitted(msg articleSubmittedMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, article.ErrInvalidDraft):
		return errCmd(errors.New(v.tr.T("public.validationFailed")))
	case errors.Is(msg.err, article.ErrSubmitInFlight):
		return statusCmd(v.tr.T("public.submitInFlight"))
	case msg.err != nil:
		return errCmd(errors.New(v.tr.T("public.requestFailed", msg.err.Error())))
	}
	return nil
}

func (v *articleView) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := v.d.keys
	if key.Matches(msg, k.Back) {
		if err := v.Close(); err != nil {
			return errCmd(err)
		}
		return nil
	}
	if !v.granted() {
		return nil
	}
	switch {
	case key.Matches(msg, k.Submit):
		return v.submit()
	case key.Matches(msg, k.FocusNext):
		v.toggleFocus()
		return nil
	}

	if v.focus == focusContent {
		var cmd tea.Cmd
		v.content, cmd = v.content.Update(msg)
		v.ctrl.SetDraft(v.formDraft())
		return cmd
	}
	switch {
	case key.Matches(msg, k.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, k.Down):
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case key.Matches(msg, k.Toggle):
		it := v.items[v.cursor]
		v.selected[it.Key] = !v.selected[it.Key]
		v.ctrl.SetDraft(v.formDraft())
	}
	return nil
}

func (v *articleView) toggleFocus() {
	if v.focus == focusContent {
		v.focus = focusTransfer
		v.content.Blur()
		return
	}
	v.focus = focusContent
	v.content.Focus()
}

func (v *articleView) submit() tea.Cmd {
	ctx, ctrl, key := v.d.ctx, v.ctrl, v.Key()
	draft := v.formDraft()
	return func() tea.Msg {
		out, err := ctrl.Submit(ctx, draft)
		return articleSubmittedMsg{viewKey: key, outcome: out, err: err}
	}
}

// formDraft reads the widgets back into a payload. Transfer keys follow
// the source order.
func (v *articleView) formDraft() article.Draft {
	var keys []string
	for _, it := range v.items {
		if v.selected[it.Key] {
			keys = append(keys, it.Key)
		}
	}
	return article.Draft{ID: v.ctrl.ID(), Content: v.content.Value(), TransferredKeys: keys}
}

func (v *articleView) fill(d article.Draft) {
	v.content.SetValue(d.Content)
	v.selected = make(map[string]bool, len(d.TransferredKeys))
	for _, k := range d.TransferredKeys {
		v.selected[k] = true
	}
}

func (v *articleView) View(width, height int) string {
	title := titleStyle.Render(v.ctrl.Title())
	if v.ctrl.Phase() == article.Submitting {
		title += "  " + mutedStyle.Render(v.tr.T("public.loading"))
	}
	if !v.granted() {
		return title + "\n\n" + statusErrBarStyle.Render(v.tr.T("public.noPermission"))
	}

	inner := max(20, width-4)
	v.content.SetWidth(inner)
	contentBox := panelStyle
	transferBox := panelStyle
	if v.focus == focusContent {
		contentBox = focusedPanelStyle
	} else {
		transferBox = focusedPanelStyle
	}

	body := contentBox.Width(inner).Render(
		mutedStyle.Render(v.tr.T("content.content")) + "\n" + v.content.View(),
	)
	list := transferBox.Width(inner).Render(
		mutedStyle.Render(v.tr.T("content.transfer")) + "\n" + v.transferLines(max(3, height-v.content.Height()-10)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, body, list)
}

// transferLines renders a window of the checklist around the cursor.
func (v *articleView) transferLines(rows int) string {
	start := 0
	if v.cursor >= rows {
		start = v.cursor - rows + 1
	}
	end := min(len(v.items), start+rows)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		it := v.items[i]
		box := "[ ]"
		if v.selected[it.Key] {
			box = selectedStyle.Render("[x]")
		}
		line := box + " " + it.Title + "  " + mutedStyle.Render(it.Description)
		if i == v.cursor && v.focus == focusTransfer {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
