// Package database owns the local article store: the sqlite handle, its
// migrations and the default records a fresh console starts with.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS covers a seed run and the console sharing one file.
const busyTimeoutMS = 5000

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", path, busyTimeoutMS)
}

// Open returns a single-connection handle on the article store at path.
// Foreign keys are enforced so transfer rows follow their article.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// WithTx runs fn inside one transaction. An error from fn rolls back and is
// returned unchanged.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Now is the timestamp stored on articles: UTC, whole seconds, matching
// CURRENT_TIMESTAMP.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
