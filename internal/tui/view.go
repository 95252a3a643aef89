package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/backend"
	"github.com/zombiebrand/adminconsole/internal/i18n"
	"github.com/zombiebrand/adminconsole/internal/menu"
	"github.com/zombiebrand/adminconsole/internal/permission"
	"github.com/zombiebrand/adminconsole/internal/shell"
	"github.com/zombiebrand/adminconsole/internal/tabs"
)

// View is one kept-alive screen. Init mounts it: registration happens
// synchronously and the returned command carries the initial fetch.
// OnActivate runs whenever a cached view becomes visible again.
type View interface {
	Key() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	OnActivate() tea.Cmd
	OnDeactivate()
	SetTranslator(tr *i18n.Translator)
	Register() error
	Busy() bool
	Help() string
}

// closer is implemented by views that own their close semantics.
type closer interface {
	Close() error
}

// deps are the collaborators every view shares with the App.
type deps struct {
	ctx     context.Context
	store   *shell.Store
	backend backend.Backend
	checker permission.Checker
	mailbox *Mailbox
	keys    keyMap
	env     func() menu.Env
	log     logrus.FieldLogger
}

// page registers a plain listing screen: one tab, a breadcrumb made of
// translated segments, and the sidebar aligned to its own path.
type page struct {
	d        *deps
	key      string
	titleKey string
	crumbs   []string
	tr       *i18n.Translator
}

func (p *page) title(tr *i18n.Translator) string { return tr.T(p.titleKey) }

func (p *page) entry() tabs.Entry {
	locales := make(map[string]string)
	for _, code := range i18n.Supported() {
		locales[code] = p.title(i18n.New(code))
	}
	crumbs := make([]string, 0, len(p.crumbs)+1)
	for _, c := range p.crumbs {
		crumbs = append(crumbs, p.tr.T(c))
	}
	crumbs = append(crumbs, p.title(p.tr))
	return tabs.Entry{
		Key:          p.key,
		Label:        p.title(p.tr),
		LabelLocales: locales,
		Breadcrumb:   i18n.FilterNav(crumbs),
	}
}

func (p *page) Register() error {
	entry := p.entry()
	if err := p.d.store.AddTab(entry); err != nil {
		return fmt.Errorf("register tab: %w", err)
	}
	if err := p.d.store.SetActiveKey(entry.Key); err != nil {
		return fmt.Errorf("activate tab: %w", err)
	}
	p.d.store.SetBreadcrumb(entry.Breadcrumb)
	return nil
}

func (p *page) mount() error {
	if err := p.Register(); err != nil {
		return err
	}
	env := menu.Env{}
	if p.d.env != nil {
		env = p.d.env()
	}
	menu.Apply(p.d.store, p.key, env)
	return nil
}

func (p *page) SetTranslator(tr *i18n.Translator) {
	if tr != nil {
		p.tr = tr
	}
}
