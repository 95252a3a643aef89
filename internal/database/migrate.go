package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations opens the database at dbPath and applies all up migrations.
func RunMigrations(dbPath string) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return RunMigrationsWithDB(db)
}

// RunMigrationsWithDB applies the embedded migrations to an open handle.
// The handle stays open afterwards.
func RunMigrationsWithDB(db *sql.DB) error {
	m, src, err := newMigrate(db)
	if err != nil {
		return err
	}
	// m.Close would close db through the sqlite3 driver.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version and dirty flag.
func SchemaVersion(db *sql.DB) (uint, bool, error) {
	m, src, err := newMigrate(db)
	if err != nil {
		return 0, false, err
	}
	defer src.Close()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func newMigrate(db *sql.DB) (*migrate.Migrate, interface{ Close() error }, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("migrations source: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return m, src, nil
}
