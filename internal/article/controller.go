package article

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/i18n"
	"github.com/zombiebrand/adminconsole/internal/logging"
	"github.com/zombiebrand/adminconsole/internal/menu"
	"github.com/zombiebrand/adminconsole/internal/permission"
	"github.com/zombiebrand/adminconsole/internal/tabs"
)

// ErrSubmitInFlight is returned when Submit is triggered while a previous
// submission has not settled.
var ErrSubmitInFlight = errors.New("submit already in flight")

// Store is the subset of the shell store the controller mutates.
type Store interface {
	AddTab(entry tabs.Entry) error
	SetActiveKey(key string) error
	SetBreadcrumb(path []string)
	CloseTabGoNext(key, fallbackPath string) (string, error)
	SetMenuOpenKeys(keys []string)
	SetMenuSelectedKeys(keys []string)
	SetRefreshRequested(flag bool)
}

// Notifier shows a transient success message.
type Notifier interface {
	Notify(message string)
}

// FormResetter clears the form widget's internal state.
type FormResetter interface {
	ResetForm()
}

// Phase tracks the submission workflow.
type Phase int

const (
	Ready Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "ready"
	}
}

// Outcome reports the backend code of a settled load or submit. Non-OK
// outcomes are soft failures and come back without an error.
type Outcome struct {
	Code    int
	Message string
}

func (o Outcome) OK() bool { return o.Code == api.CodeOK }

// Options configures a Controller. URI, Backend and Store are required.
type Options struct {
	URI        string
	Backend    Backend
	Store      Store
	Checker    permission.Checker
	Translator *i18n.Translator
	Validator  Validator
	Notifier   Notifier
	Form       FormResetter
	Env        func() menu.Env
	Logger     logrus.FieldLogger
}

// Controller owns one mounted create/edit screen.
type Controller struct {
	uri     string
	path    string
	id      string
	backend Backend
	store   Store
	gate    *permission.Gate
	valid   Validator
	env     func() menu.Env
	log     logrus.FieldLogger

	mu       sync.Mutex
	tr       *i18n.Translator
	notifier Notifier
	form     FormResetter
	draft    Draft
	baseline Draft
	inflight int
	phase    Phase
}

func New(opts Options) (*Controller, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("article controller: empty uri")
	}
	if opts.Backend == nil || opts.Store == nil {
		return nil, fmt.Errorf("article controller: backend and store are required")
	}
	path, id := SplitURI(opts.URI)
	c := &Controller{
		uri:      opts.URI,
		path:     path,
		id:       id,
		backend:  opts.Backend,
		store:    opts.Store,
		gate:     permission.NewGate(PermissionPrefix, opts.Checker),
		valid:    opts.Validator,
		env:      opts.Env,
		log:      opts.Logger,
		tr:       opts.Translator,
		notifier: opts.Notifier,
		form:     opts.Form,
	}
	if c.valid == nil {
		c.valid = NewStructValidator()
	}
	if c.tr == nil {
		c.tr = i18n.New("en")
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.log = c.log.WithFields(logrus.Fields{"component": "article", "uri": c.uri})
	if c.id == "" {
		c.baseline = DefaultDraft()
		c.draft = c.baseline.Clone()
	}
	return c, nil
}

func (c *Controller) Key() string { return c.uri }

// ID is the record id captured from the route; empty in create mode.
func (c *Controller) ID() string { return c.id }

func (c *Controller) Capability() permission.Capability { return permission.CapabilityFor(c.id) }

// Mount evaluates the permission gate, registers the tab and then aligns
// the sidebar. The caller starts Load separately.
func (c *Controller) Mount() (permission.Permission, error) {
	perm := c.gate.Evaluate(c.id)
	if err := c.Register(); err != nil {
		return perm, err
	}
	env := menu.Env{}
	if c.env != nil {
		env = c.env()
	}
	menu.Apply(c.store, FatherPath, env)
	c.log.WithFields(logrus.Fields{"capability": perm.Capability.String(), "granted": perm.Granted}).Debug("mounted")
	return perm, nil
}

// Register upserts this screen's tab, activates it and publishes its
// breadcrumb. The root route is never registered.
func (c *Controller) Register() error {
	if c.path == "/" {
		return nil
	}
	entry := c.Entry()
	if err := c.store.AddTab(entry); err != nil {
		return fmt.Errorf("register tab: %w", err)
	}
	if err := c.store.SetActiveKey(entry.Key); err != nil {
		return fmt.Errorf("activate tab: %w", err)
	}
	c.store.SetBreadcrumb(entry.Breadcrumb)
	return nil
}

// OnReactivate handles a kept-alive view becoming visible again. The draft
// is left as the user had it.
func (c *Controller) OnReactivate() error {
	c.log.Debug("reactivated")
	return c.Register()
}

// Entry builds the tab entry under the current translator.
func (c *Controller) Entry() tabs.Entry {
	c.mu.Lock()
	tr := c.tr
	c.mu.Unlock()

	locales := make(map[string]string)
	for _, code := range i18n.Supported() {
		locales[code] = c.title(i18n.New(code))
	}
	title := c.title(tr)
	return tabs.Entry{
		Key:          c.uri,
		Label:        title,
		LabelLocales: locales,
		Breadcrumb:   i18n.FilterNav([]string{tr.T("content.contentTitle"), tr.T("content.articleTitle"), title}),
	}
}

func (c *Controller) title(tr *i18n.Translator) string {
	name := tr.T("content.articleTitle")
	if c.id != "" {
		return i18n.EditTitle(tr, c.id, name)
	}
	return i18n.AddTitle(tr, name)
}

// Title is the screen title in the current locale.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title(c.tr)
}

func (c *Controller) SetTranslator(tr *i18n.Translator) {
	if tr == nil {
		return
	}
	c.mu.Lock()
	c.tr = tr
	c.mu.Unlock()
}

// Authorize re-evaluates the gate against the current checker.
func (c *Controller) Authorize() permission.Permission { return c.gate.Evaluate(c.id) }

func (c *Controller) Permission() (permission.Permission, permission.Status) {
	return c.gate.Permission(), c.gate.Status()
}

// Load seeds the create default, or fetches the record in edit mode. A
// non-OK code leaves the current draft untouched. Transport errors are
// returned as the backend produced them.
func (c *Controller) Load(ctx context.Context) (Outcome, error) {
	if c.id == "" {
		c.setBaseline(DefaultDraft())
		return Outcome{Code: api.CodeOK}, nil
	}

	release := c.acquire()
	defer release()

	res, err := c.backend.GetArticle(ctx, c.id)
	if err != nil {
		c.log.WithError(err).Warn("fetch article")
		return Outcome{}, err
	}
	out := Outcome{Code: res.Code, Message: res.Message}
	if !res.OK() {
		c.log.WithField("code", res.Code).Info("fetch article: soft failure")
		return out, nil
	}
	c.setBaseline(res.Data)
	return out, nil
}

// Submit validates d and sends it to the create or update endpoint,
// depending on the id captured from the route. On success it notifies,
// resets the form, requests a refresh of the listing and closes the tab.
func (c *Controller) Submit(ctx context.Context, d Draft) (Outcome, error) {
	if err := c.valid.Validate(d); err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	if c.phase == Submitting {
		c.mu.Unlock()
		return Outcome{}, ErrSubmitInFlight
	}
	c.phase = Submitting
	c.draft = d.Clone()
	c.mu.Unlock()

	release := c.acquire()
	defer release()

	var (
		res api.Result[api.Empty]
		err error
	)
	if c.id != "" {
		res, err = c.backend.UpdateArticle(ctx, c.id, d.Clone())
	} else {
		res, err = c.backend.CreateArticle(ctx, d.Clone())
	}
	if err != nil {
		c.setPhase(Failed)
		c.log.WithError(err).Warn("submit article")
		return Outcome{}, err
	}
	out := Outcome{Code: res.Code, Message: res.Message}
	if !res.OK() {
		c.setPhase(Failed)
		c.log.WithField("code", res.Code).Info("submit article: soft failure")
		return out, nil
	}

	c.setPhase(Succeeded)
	msg := res.Message
	c.mu.Lock()
	if msg == "" {
		msg = c.tr.T("public.successfulOperation")
	}
	notifier := c.notifier
	c.mu.Unlock()
	if notifier != nil {
		notifier.Notify(msg)
	}
	if err := c.GoBack(true); err != nil {
		return out, err
	}
	return out, nil
}

// GoBack drops unsaved edits, resets the form, optionally flags the listing for reload and
// closes this tab, falling back to the listing route.
func (c *Controller) GoBack(refresh bool) error {
	c.ResetDraft()
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()
	if form != nil {
		form.ResetForm()
	}
	if refresh {
		c.store.SetRefreshRequested(true)
	}
	next, err := c.store.CloseTabGoNext(c.uri, FatherPath)
	if err != nil {
		return fmt.Errorf("close tab: %w", err)
	}
	c.log.WithField("next", next).Debug("closed")
	return nil
}

// acquire raises the loading flag; the returned func lowers it once.
func (c *Controller) acquire() func() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.inflight--
			c.mu.Unlock()
		})
	}
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loading reports whether a fetch or submit is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// SetDraft replaces the draft wholesale, e.g. with the form's edits.
func (c *Controller) SetDraft(d Draft) {
	c.mu.Lock()
	c.draft = d.Clone()
	c.mu.Unlock()
}

// Baseline is the draft edits are measured against: the create default, or
// the last record fetched in edit mode.
func (c *Controller) Baseline() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseline.Clone()
}

// ResetDraft discards edits and returns the draft to the baseline.
func (c *Controller) ResetDraft() {
	c.mu.Lock()
	c.draft = c.baseline.Clone()
	c.mu.Unlock()
}

func (c *Controller) setBaseline(d Draft) {
	c.mu.Lock()
	c.baseline = d.Clone()
	c.draft = d.Clone()
	c.mu.Unlock()
}
