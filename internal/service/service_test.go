package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zombiebrand/adminconsole/internal/database"
	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))
	return db
}

func TestArticleServiceCreateUpdateGet(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc := &ArticleService{Articles: repository.NewArticleRepo(openDB(t)), NewID: func() string { return "7" }}
	created, err := svc.Create(ctx, ArticleInput{Content: "<h1>x</h1>", TransferKeys: []string{"1", "2", "1", " "}})
	require.NoError(t, err)
	require.Equal(t, "7", created.ID)
	require.Equal(t, []string{"1", "2"}, created.TransferKeys)

	updated, err := svc.Update(ctx, "7", ArticleInput{Content: "<h1>y</h1>"})
	require.NoError(t, err)
	require.Equal(t, "<h1>y</h1>", updated.Content)
	require.Empty(t, updated.TransferKeys)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, "missing", ArticleInput{Content: "z"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArticleServiceRejectsEmptyContent(t *testing.T) {
	t.Parallel()
	svc := &ArticleService{Articles: repository.NewArticleRepo(openDB(t))}
	_, err := svc.Create(context.Background(), ArticleInput{Content: "  "})
	require.ErrorIs(t, err, ErrInvalid)
	_, err = svc.Update(context.Background(), "", ArticleInput{Content: "x"})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestArticleServiceListDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, database.SeedDefaults(ctx, db))

	svc := &ArticleService{Articles: repository.NewArticleRepo(db)}
	items, total, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, items, 5)

	items, _, err = svc.List(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestDashboardTrendsZeroFills(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewArticleRepo(openDB(t))
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, repository.Article{ID: "a", Content: "a", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, repository.Article{ID: "b", Content: "b", CreatedAt: now.AddDate(0, 0, -2)}))
	require.NoError(t, repo.Upsert(ctx, repository.Article{ID: "c", Content: "c", CreatedAt: now.AddDate(0, 0, -20)}))

	svc := &DashboardService{Articles: repo, Now: func() time.Time { return now }}
	tr, err := svc.Trends(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 3, tr.Total)
	require.Equal(t, []repository.DayCount{
		{Day: "2026-05-08", Count: 1},
		{Day: "2026-05-09", Count: 0},
		{Day: "2026-05-10", Count: 1},
	}, tr.Days)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, database.SeedDefaults(ctx, db))

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))
	n, err := repository.NewArticleRepo(db).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
