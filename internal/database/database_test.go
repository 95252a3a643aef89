package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombiebrand/adminconsole/internal/database/repository"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	// the handle survives migrating through it
	require.NoError(t, RunMigrationsWithDB(db))
	require.NoError(t, db.Ping())
}

func TestSeedDefaultsOnlyFillsEmptyDB(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrationsWithDB(db))

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	repo := repository.NewArticleRepo(db)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, len(demoArticles), n)

	first, err := repo.Get(ctx, SeedID(0))
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, []string{"1", "2"}, first.TransferKeys)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrationsWithDB(db))

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO articles(id, content) VALUES ('x', 'y')`); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n))
	require.Zero(t, n)
}
