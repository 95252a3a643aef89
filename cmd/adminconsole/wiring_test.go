package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/config"
	"github.com/zombiebrand/adminconsole/internal/logging"
	"github.com/zombiebrand/adminconsole/internal/permission"
)

func TestNewCheckerFromList(t *testing.T) {
	c, err := newChecker(config.AuthConfig{Permissions: []string{"/content/article/update"}})
	require.NoError(t, err)
	require.True(t, c.Check(permission.Path(article.PermissionPrefix, permission.Update)))
	require.False(t, c.Check(permission.Path(article.PermissionPrefix, permission.Create)))
}

func TestNewCheckerFromPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	require.NoError(t, os.WriteFile(path, []byte("p, role:editor, /content/article, create\n"), 0o600))

	c, err := newChecker(config.AuthConfig{Role: "editor", PolicyPath: path, Permissions: []string{"*"}})
	require.NoError(t, err)
	require.True(t, c.Check("/content/article/create"))
	require.False(t, c.Check("/content/article/update"))
}

func TestLocalBackendOverSeededDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := openDB(ctx, filepath.Join(t.TempDir(), "nested", "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	b := localBackend(db, logging.Discard())
	page, err := b.ListArticles(ctx, api.PageQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.True(t, page.OK())
	require.Equal(t, 5, page.Data.Total)

	res, err := b.CreateArticle(ctx, article.Draft{Content: "<p>hi</p>", TransferredKeys: []string{"3"}})
	require.NoError(t, err)
	require.True(t, res.OK())

	dash, err := b.DataTrends(ctx, api.TrendQuery{Days: 7})
	require.NoError(t, err)
	require.Equal(t, 6, dash.Data.Total)
}

func TestResetRequiresConfirmation(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"reset"})
	err := cmd.Execute()
	require.ErrorContains(t, err, "--yes")
}
