// Package tui is the terminal admin console: a tab bar of kept-alive views,
// a sidebar and breadcrumb driven by the shell store, and a status line.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/backend"
	"github.com/zombiebrand/adminconsole/internal/config"
	"github.com/zombiebrand/adminconsole/internal/i18n"
	"github.com/zombiebrand/adminconsole/internal/logging"
	"github.com/zombiebrand/adminconsole/internal/menu"
	"github.com/zombiebrand/adminconsole/internal/permission"
	"github.com/zombiebrand/adminconsole/internal/shell"
)

// Options wires the App. Backend is required.
type Options struct {
	Config  config.Config
	Backend backend.Backend
	Checker permission.Checker
	Logger  logrus.FieldLogger
	// Save persists UI preferences; nil disables persistence.
	Save func(config.Config) error
	// Start is the first route opened; defaults to the dashboard.
	Start string
}

// App owns the view cache. Views stay alive while their tab is open and are
// evicted once the registry no longer lists them.
type App struct {
	ctx     context.Context
	cfg     config.Config
	d       *deps
	store   *shell.Store
	mailbox *Mailbox
	tree    menu.Tree
	tr      *i18n.Translator
	save    func(config.Config) error
	log     logrus.FieldLogger

	views   map[string]View
	current string
	start   string

	width     int
	height    int
	status    string
	statusErr bool
	spinner   spinner.Model
	spinning  bool

	gotoActive bool
	gotoInput  textinput.Model
}

func New(ctx context.Context, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithField("component", "tui")
	mailbox := NewMailbox()
	store := shell.NewStore(mailbox)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	inp := textinput.New()
	inp.Prompt = "> "
	inp.Cursor.SetMode(cursor.CursorStatic)

	a := &App{
		ctx:       ctx,
		cfg:       opts.Config,
		store:     store,
		mailbox:   mailbox,
		tree:      menu.DefaultTree(),
		tr:        i18n.New(opts.Config.UI.Locale),
		save:      opts.Save,
		log:       log,
		views:     make(map[string]View),
		start:     opts.Start,
		spinner:   sp,
		gotoInput: inp,
	}
	a.d = &deps{
		ctx:     ctx,
		store:   store,
		backend: opts.Backend,
		checker: opts.Checker,
		mailbox: mailbox,
		keys:    defaultKeys(),
		env:     a.menuEnv,
		log:     log,
	}
	return a
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Store exposes the shell store, mainly for tests.
func (a *App) Store() *shell.Store { return a.store }

// Current is the key of the visible view.
func (a *App) Current() string { return a.current }

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.open(a.start), a.settle())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if key.Matches(m, a.d.keys.Quit) {
			return a, tea.Quit
		}
		cmds = append(cmds, a.handleKey(m))
	case statusMsg:
		a.status, a.statusErr = string(m), false
	case errMsg:
		a.status, a.statusErr = "error: "+m.Error(), true
		a.log.WithError(m.error).Warn("ui error")
	case configSavedMsg:
		if m.err != nil {
			a.status, a.statusErr = "error: save config: "+m.err.Error(), true
		}
	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(m)
			cmds = append(cmds, cmd)
		} else {
			a.spinning = false
		}
	default:
		if viewKey, ok := viewKeyOf(msg); ok {
			if v, ok := a.views[viewKey]; ok {
				cmds = append(cmds, v.Update(msg))
			} else {
				a.log.WithField("view", viewKey).Debug("result for closed view dropped")
			}
		} else if v := a.active(); v != nil {
			cmds = append(cmds, v.Update(msg))
		}
	}
	cmds = append(cmds, a.settle())
	return a, tea.Batch(cmds...)
}

// settle applies everything views queued during this update: navigations,
// toasts, evictions of closed tabs and the loading indicator.
func (a *App) settle() tea.Cmd {
	var cmds []tea.Cmd
	for i := 0; i < 8; i++ {
		routes, notices := a.mailbox.Drain()
		if len(routes) == 0 && len(notices) == 0 {
			break
		}
		for _, n := range notices {
			a.status, a.statusErr = n, false
		}
		for _, r := range routes {
			cmds = append(cmds, a.open(r))
		}
	}
	a.evict()
	if a.busy() && !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) evict() {
	for k, v := range a.views {
		if a.store.Tabs().Has(k) {
			continue
		}
		v.OnDeactivate()
		delete(a.views, k)
		if k == a.current {
			a.current = ""
		}
		a.log.WithField("view", k).Debug("evicted")
	}
}

// open shows route, reactivating a cached view or mounting a new one.
func (a *App) open(route string) tea.Cmd {
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		route = dashboardPath
	}
	if v, ok := a.views[route]; ok {
		if route == a.current {
			return nil
		}
		a.deactivate()
		a.current = route
		return v.OnActivate()
	}
	v, err := a.build(route)
	if err != nil {
		return errCmd(err)
	}
	a.deactivate()
	a.views[v.Key()] = v
	a.current = v.Key()
	return v.Init()
}

func (a *App) build(route string) (View, error) {
	path, _ := article.SplitURI(route)
	switch path {
	case dashboardPath:
		return newDashboardView(a.d, a.tr), nil
	case article.FatherPath:
		return newListView(a.d, a.tr), nil
	case article.RoutePath:
		return newArticleView(a.d, route, a.tr)
	}
	return nil, errors.New(a.tr.T("public.notFound", route))
}

func (a *App) deactivate() {
	if v := a.active(); v != nil {
		v.OnDeactivate()
	}
}

func (a *App) active() View {
	if a.current == "" {
		return nil
	}
	return a.views[a.current]
}

func (a *App) busy() bool {
	v := a.active()
	return v != nil && v.Busy()
}

func (a *App) menuEnv() menu.Env {
	return menu.Env{
		NarrowViewport:   a.width > 0 && a.width < a.cfg.UI.NarrowWidth,
		SidebarCollapsed: a.cfg.UI.SidebarCollapsed,
	}
}

func (a *App) translate(key string) string { return a.tr.T(key) }

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if a.gotoActive {
		return a.handleGotoKey(m)
	}
	k := a.d.keys
	switch {
	case key.Matches(m, k.CloseTab):
		return a.closeCurrent()
	case key.Matches(m, k.NextTab):
		return a.cycle(1)
	case key.Matches(m, k.PrevTab):
		return a.cycle(-1)
	case key.Matches(m, k.Sidebar):
		a.cfg.UI.SidebarCollapsed = !a.cfg.UI.SidebarCollapsed
		return a.saveConfig()
	case key.Matches(m, k.Locale):
		return a.switchLocale()
	case key.Matches(m, k.Goto):
		a.gotoActive = true
		a.gotoInput.Reset()
		a.gotoInput.Placeholder = a.tr.T("public.goto")
		a.gotoInput.Focus()
		return nil
	case key.Matches(m, k.NewArticle):
		return a.open(article.RouteFor(""))
	}
	if v := a.active(); v != nil {
		return v.Update(m)
	}
	return nil
}

func (a *App) handleGotoKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case m.Type == tea.KeyEsc:
		a.gotoActive = false
		a.gotoInput.Blur()
		return nil
	case key.Matches(m, a.d.keys.Confirm):
		q := strings.TrimSpace(a.gotoInput.Value())
		a.gotoActive = false
		a.gotoInput.Blur()
		if strings.HasPrefix(q, "/") {
			return a.open(q)
		}
		if leaf, ok := a.tree.Find(q, a.translate); ok {
			return a.open(leaf.Key)
		}
		return errCmd(errors.New(a.tr.T("public.notFound", q)))
	}
	var cmd tea.Cmd
	a.gotoInput, cmd = a.gotoInput.Update(m)
	return cmd
}

func (a *App) closeCurrent() tea.Cmd {
	v := a.active()
	if v == nil {
		return nil
	}
	var err error
	if c, ok := v.(closer); ok {
		err = c.Close()
	} else {
		_, err = a.store.CloseTabGoNext(v.Key(), dashboardPath)
	}
	if err != nil {
		return errCmd(err)
	}
	return nil
}

func (a *App) cycle(delta int) tea.Cmd {
	next, ok := a.store.Tabs().Neighbour(a.current, delta)
	if !ok {
		return nil
	}
	return a.open(next)
}

// switchLocale moves to the next catalog locale. The visible view
// re-registers at once; hidden ones relabel when reactivated.
func (a *App) switchLocale() tea.Cmd {
	a.tr = a.tr.Next()
	for _, v := range a.views {
		v.SetTranslator(a.tr)
	}
	var cmds []tea.Cmd
	if v := a.active(); v != nil {
		if err := v.Register(); err != nil {
			cmds = append(cmds, errCmd(err))
		}
	}
	a.cfg.UI.Locale = a.tr.Locale()
	cmds = append(cmds, a.saveConfig())
	return tea.Batch(cmds...)
}

func (a *App) saveConfig() tea.Cmd {
	if a.save == nil {
		return nil
	}
	cfg, save := a.cfg, a.save
	return func() tea.Msg { return configSavedMsg{err: save(cfg)} }
}
