package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ArticleRepo handles articles and their transfer keys.
type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{db: db} }

// Upsert inserts or replaces an article and rewrites its transfer keys.
func (r *ArticleRepo) Upsert(ctx context.Context, a Article) error {
	now := time.Now().UTC().Truncate(time.Second)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO articles(id, content, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content=excluded.content, updated_at=excluded.updated_at;
		`, a.ID, a.Content, a.CreatedAt, a.UpdatedAt); err != nil {
			return fmt.Errorf("upsert article: %w", err)
		}
		return replaceTransfers(ctx, tx, a.ID, a.TransferKeys)
	})
}

// Update changes content and transfer keys of an existing article. It
// reports false when no row has that id.
func (r *ArticleRepo) Update(ctx context.Context, id, content string, keys []string) (bool, error) {
	found := false
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE articles SET content = ?, updated_at = ? WHERE id = ?`,
			content, time.Now().UTC().Truncate(time.Second), id)
		if err != nil {
			return fmt.Errorf("update article: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		found = true
		return replaceTransfers(ctx, tx, id, keys)
	})
	return found && err == nil, err
}

// Get returns nil, nil when the article does not exist.
func (r *ArticleRepo) Get(ctx context.Context, id string) (*Article, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, content, created_at, updated_at FROM articles WHERE id = ?`, id)
	var a Article
	if err := row.Scan(&a.ID, &a.Content, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	keys, err := r.transferKeys(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.TransferKeys = keys
	return &a, nil
}

// List returns one page ordered newest first, plus the total row count.
func (r *ArticleRepo) List(ctx context.Context, limit, offset int) ([]Article, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, content, created_at, updated_at FROM articles
	ORDER BY created_at DESC, id
	LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Content, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		keys, err := r.transferKeys(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].TransferKeys = keys
	}
	return out, total, nil
}

func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// DailyCounts groups articles created at or after since by UTC day.
func (r *ArticleRepo) DailyCounts(ctx context.Context, since time.Time) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT substr(created_at, 1, 10) AS day, COUNT(*) FROM articles
	WHERE created_at >= ?
	GROUP BY day ORDER BY day`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ArticleRepo) transferKeys(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_key FROM article_transfers WHERE article_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *ArticleRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replaceTransfers(ctx context.Context, tx *sql.Tx, id string, keys []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_transfers WHERE article_id = ?`, id); err != nil {
		return fmt.Errorf("clear transfers: %w", err)
	}
	for i, k := range keys {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO article_transfers(article_id, item_key, position) VALUES (?, ?, ?)
		ON CONFLICT(article_id, item_key) DO UPDATE SET position=excluded.position;
		`, id, k, i); err != nil {
			return fmt.Errorf("insert transfer %s: %w", k, err)
		}
	}
	return nil
}
