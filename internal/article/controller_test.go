package article

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/i18n"
	"github.com/zombiebrand/adminconsole/internal/menu"
	"github.com/zombiebrand/adminconsole/internal/permission"
	"github.com/zombiebrand/adminconsole/internal/shell"
	"github.com/zombiebrand/adminconsole/internal/tabs"
)

type fakeBackend struct {
	mu      sync.Mutex
	calls   []string
	ids     []string
	fetch   api.Result[Draft]
	result  api.Result[api.Empty]
	err     error
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeBackend) record(call, id string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.ids = append(f.ids, id)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeBackend) GetArticle(_ context.Context, id string) (api.Result[Draft], error) {
	f.record("get", id)
	return f.fetch, f.err
}

func (f *fakeBackend) CreateArticle(_ context.Context, _ Draft) (api.Result[api.Empty], error) {
	f.record("create", "")
	return f.result, f.err
}

func (f *fakeBackend) UpdateArticle(_ context.Context, id string, _ Draft) (api.Result[api.Empty], error) {
	f.record("update", id)
	return f.result, f.err
}

type recorder struct {
	mu       sync.Mutex
	notes    []string
	resets   int
	navigate []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, msg)
}

func (r *recorder) ResetForm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigate = append(r.navigate, path)
}

func newController(t *testing.T, uri string, b Backend) (*Controller, *shell.Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	store := shell.NewStore(rec)
	c, err := New(Options{
		URI:      uri,
		Backend:  b,
		Store:    store,
		Checker:  permission.NewSet("*"),
		Notifier: rec,
		Form:     rec,
	})
	require.NoError(t, err)
	return c, store, rec
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{URI: RoutePath})
	require.Error(t, err)
	_, err = New(Options{Backend: &fakeBackend{}, Store: shell.NewStore(nil)})
	require.Error(t, err)
}

func TestRouteRoundTrip(t *testing.T) {
	require.Equal(t, RoutePath, RouteFor(""))
	require.Equal(t, RoutePath+"?id=42", RouteFor("42"))
	path, id := SplitURI(RouteFor("42"))
	require.Equal(t, RoutePath, path)
	require.Equal(t, "42", id)
}

func TestDefaultDraft(t *testing.T) {
	d := DefaultDraft()
	require.Equal(t, "<h4>初始化内容</h4>", d.Content)
	require.Equal(t, []string{"11", "12", "13", "14", "15", "16", "17", "18", "19"}, d.TransferredKeys)
	require.Len(t, TransferSource(), 20)
	require.Equal(t, "content1", TransferSource()[0].Title)
}

func TestSubmitBranchesOnCapturedID(t *testing.T) {
	ok := api.Result[api.Empty]{Code: 200}

	create := &fakeBackend{result: ok}
	c, _, _ := newController(t, RouteFor(""), create)
	_, err := c.Submit(context.Background(), Draft{Content: "x"})
	require.ErrorIs(t, err, tabs.ErrInvalidKey)
	require.Equal(t, []string{"create"}, create.calls)

	update := &fakeBackend{result: ok}
	c, _, _ = newController(t, RouteFor("42"), update)
	_, err = c.Submit(context.Background(), Draft{ID: "ignored", Content: "x"})
	require.ErrorIs(t, err, tabs.ErrInvalidKey)
	require.Equal(t, []string{"update"}, update.calls)
	require.Equal(t, []string{"42"}, update.ids)
}

func TestLoadSoftFailureKeepsDraft(t *testing.T) {
	b := &fakeBackend{fetch: api.Result[Draft]{Code: 500}}
	c, _, _ := newController(t, RouteFor("9"), b)
	prior := Draft{ID: "9", Content: "<p>typed</p>", TransferredKeys: []string{"3"}}
	c.SetDraft(prior)

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, prior, c.Draft())
	require.False(t, c.Loading())
}

func TestLoadTransportFaultPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	b := &fakeBackend{err: boom}
	c, _, _ := newController(t, RouteFor("9"), b)

	_, err := c.Load(context.Background())
	require.Same(t, boom, err)
	require.False(t, c.Loading())
}

func TestCreateModeLoadSeedsDefault(t *testing.T) {
	b := &fakeBackend{}
	c, _, _ := newController(t, RouteFor(""), b)
	c.SetDraft(Draft{Content: "scratch"})

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	require.True(t, out.OK())
	require.True(t, DefaultDraft().Equal(c.Draft()))
	require.Empty(t, b.calls)
}

func TestEndToEndCreate(t *testing.T) {
	b := &fakeBackend{result: api.Result[api.Empty]{Code: 200, Message: "ok"}}
	c, store, rec := newController(t, RouteFor(""), b)

	require.NoError(t, store.AddTab(tabs.Entry{Key: FatherPath, Label: "Articles"}))
	require.NoError(t, store.SetActiveKey(FatherPath))
	perm, err := c.Mount()
	require.NoError(t, err)
	require.Equal(t, permission.Permission{Capability: permission.Create, Granted: true}, perm)
	require.Equal(t, c.Key(), store.Tabs().ActiveKey())

	out, err := c.Submit(context.Background(), Draft{Content: "<p>hi</p>", TransferredKeys: []string{}})
	require.NoError(t, err)
	require.True(t, out.OK())
	require.Equal(t, []string{"ok"}, rec.notes)
	require.Equal(t, 1, rec.resets)
	require.True(t, store.RefreshRequested())
	require.False(t, store.Tabs().Has(c.Key()))
	require.Equal(t, FatherPath, store.Tabs().ActiveKey())
	require.Equal(t, []string{FatherPath}, rec.navigate)
	require.Equal(t, Succeeded, c.Phase())
	require.False(t, c.Loading())
}

func TestSubmitDefaultMessageIsTranslated(t *testing.T) {
	b := &fakeBackend{result: api.Result[api.Empty]{Code: 200}}
	c, store, rec := newController(t, RouteFor(""), b)
	c.SetTranslator(i18n.New("zh"))
	_, err := c.Mount()
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), DefaultDraft())
	require.NoError(t, err)
	require.Equal(t, []string{"操作成功"}, rec.notes)
	require.Equal(t, 0, store.Tabs().Len())
	require.Equal(t, []string{FatherPath}, rec.navigate)
}

func TestSubmitSoftFailureRetainsEdits(t *testing.T) {
	b := &fakeBackend{result: api.Result[api.Empty]{Code: 500, Message: "db down"}}
	c, store, rec := newController(t, RouteFor("5"), b)
	_, err := c.Mount()
	require.NoError(t, err)

	edited := Draft{ID: "5", Content: "<p>edited</p>", TransferredKeys: []string{"1"}}
	out, err := c.Submit(context.Background(), edited)
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, edited, c.Draft())
	require.Empty(t, rec.notes)
	require.Zero(t, rec.resets)
	require.True(t, store.Tabs().Has(c.Key()))
	require.False(t, store.RefreshRequested())
	require.Equal(t, Failed, c.Phase())
	require.False(t, c.Loading())
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	b := &fakeBackend{}
	c, _, _ := newController(t, RouteFor(""), b)
	_, err := c.Submit(context.Background(), Draft{Content: "   "})
	require.ErrorIs(t, err, ErrInvalidDraft)
	require.Empty(t, b.calls)
	require.Equal(t, Ready, c.Phase())
}

func TestSubmitGuardsAgainstDoubleTrigger(t *testing.T) {
	b := &fakeBackend{
		result:  api.Result[api.Empty]{Code: 500},
		entered: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
	c, _, _ := newController(t, RouteFor("3"), b)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), Draft{Content: "a"})
		done <- err
	}()
	<-b.entered
	require.True(t, c.Loading())

	_, err := c.Submit(context.Background(), Draft{Content: "b"})
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(b.block)
	require.NoError(t, <-done)
	require.Equal(t, []string{"update"}, b.calls)
	require.False(t, c.Loading())
}

func TestEndToEndEditLoad(t *testing.T) {
	payload := Draft{ID: "7", Content: "<h1>x</h1>", TransferredKeys: []string{"1", "2"}}
	b := &fakeBackend{fetch: api.Result[Draft]{Code: 200, Data: payload}}
	c, _, _ := newController(t, RouteFor("7"), b)

	perm, err := c.Mount()
	require.NoError(t, err)
	require.Equal(t, permission.Update, perm.Capability)
	_, status := c.Permission()
	require.Equal(t, permission.Authorized, status)

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	require.True(t, out.OK())
	require.Equal(t, payload, c.Draft())
	require.False(t, c.Loading())
	require.Equal(t, []string{"7"}, b.ids)
}

func TestReactivationPreservesDraft(t *testing.T) {
	b := &fakeBackend{}
	c, store, _ := newController(t, RouteFor("7"), b)
	_, err := c.Mount()
	require.NoError(t, err)

	require.NoError(t, store.AddTab(tabs.Entry{Key: "/dashboard"}))
	require.NoError(t, store.SetActiveKey("/dashboard"))

	unsaved := Draft{ID: "7", Content: "<p>half written</p>", TransferredKeys: []string{"4", "2"}}
	c.SetDraft(unsaved)
	c.SetTranslator(i18n.New("zh"))

	require.NoError(t, c.OnReactivate())
	require.Equal(t, unsaved, c.Draft())
	require.Equal(t, c.Key(), store.Tabs().ActiveKey())

	entry, ok := store.Tabs().Get(c.Key())
	require.True(t, ok)
	require.Equal(t, "编辑文章管理(7)", entry.Label)
	require.Equal(t, "Edit Article (7)", entry.LabelLocales["en"])
	require.Equal(t, []string{"内容管理", "文章管理", "编辑文章管理(7)"}, store.Breadcrumb())
	require.Equal(t, []string{c.Key(), "/dashboard"}, store.Tabs().Snapshot().Keys())
}

func TestMountOrdersRegistrationBeforeMenuSync(t *testing.T) {
	c, store, _ := newController(t, RouteFor(""), &fakeBackend{})
	_, err := c.Mount()
	require.NoError(t, err)
	require.Equal(t, []string{"/content"}, store.Menu().OpenKeys)
	require.Equal(t, []string{FatherPath}, store.Menu().SelectedKeys)

	narrowStore := shell.NewStore(nil)
	narrow, err := New(Options{
		URI:     RouteFor("1"),
		Backend: &fakeBackend{},
		Store:   narrowStore,
		Env:     func() menu.Env { return menu.Env{NarrowViewport: true} },
	})
	require.NoError(t, err)
	perm, err := narrow.Mount()
	require.NoError(t, err)
	require.False(t, perm.Granted)
	require.True(t, narrowStore.Tabs().Has(narrow.Key()))
	require.Empty(t, narrowStore.Menu().OpenKeys)
	require.Empty(t, narrowStore.Menu().SelectedKeys)
}

func TestRootPathIsNotRegistered(t *testing.T) {
	store := shell.NewStore(nil)
	c, err := New(Options{URI: "/", Backend: &fakeBackend{}, Store: store})
	require.NoError(t, err)
	require.NoError(t, c.Register())
	require.Equal(t, 0, store.Tabs().Len())
}

func TestGoBackWithoutRefresh(t *testing.T) {
	c, store, rec := newController(t, RouteFor("2"), &fakeBackend{})
	_, err := c.Mount()
	require.NoError(t, err)

	require.NoError(t, c.GoBack(false))
	require.False(t, store.RefreshRequested())
	require.Equal(t, 1, rec.resets)
	require.Equal(t, []string{FatherPath}, rec.navigate)
}

func TestGoBackRestoresFetchedBaseline(t *testing.T) {
	payload := Draft{ID: "7", Content: "<p>saved</p>", TransferredKeys: []string{"3"}}
	b := &fakeBackend{fetch: api.Result[Draft]{Code: 200, Data: payload}}
	c, _, rec := newController(t, RouteFor("7"), b)
	_, err := c.Mount()
	require.NoError(t, err)
	_, err = c.Load(context.Background())
	require.NoError(t, err)

	c.SetDraft(Draft{ID: "7", Content: "<p>saved</p> more", TransferredKeys: []string{"3", "5"}})
	require.NoError(t, c.GoBack(false))

	require.Equal(t, 1, rec.resets)
	require.Equal(t, payload, c.Draft())
	require.Equal(t, payload, c.Baseline())
}

func TestResetDraftInCreateModeReturnsDefault(t *testing.T) {
	c, _, _ := newController(t, RouteFor(""), &fakeBackend{})
	c.SetDraft(Draft{Content: "<p>typed</p>", TransferredKeys: []string{"1"}})

	c.ResetDraft()
	require.True(t, DefaultDraft().Equal(c.Draft()))
}

func TestAuthorizeFollowsChecker(t *testing.T) {
	allow := false
	c, err := New(Options{
		URI:     RouteFor(""),
		Backend: &fakeBackend{},
		Store:   shell.NewStore(&recorder{}),
		Checker: permission.CheckerFunc(func(string) bool { return allow }),
	})
	require.NoError(t, err)

	require.False(t, c.Authorize().Granted)
	allow = true
	require.True(t, c.Authorize().Granted)
	_, status := c.Permission()
	require.Equal(t, permission.Authorized, status)
}
