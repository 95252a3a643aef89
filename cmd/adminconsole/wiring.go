package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/backend"
	"github.com/zombiebrand/adminconsole/internal/config"
	"github.com/zombiebrand/adminconsole/internal/database"
	"github.com/zombiebrand/adminconsole/internal/database/repository"
	"github.com/zombiebrand/adminconsole/internal/logging"
	"github.com/zombiebrand/adminconsole/internal/permission"
	"github.com/zombiebrand/adminconsole/internal/service"
)

// runtime is the process-wide state every command starts from.
type runtime struct {
	cfg    config.Config
	log    *logrus.Logger
	closer io.Closer
	db     *sql.DB
}

// setup loads config and logging, and opens the migrated, seeded database
// unless the console talks to a remote backend and needDB is false.
func setup(ctx context.Context, needDB bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log, closer: closer}
	if !needDB && cfg.Backend.Mode == "remote" {
		return rt, nil
	}
	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	rt.db = db
	return rt, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrationsWithDB(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

func (rt *runtime) Close() error {
	var errs []error
	if rt.db != nil {
		errs = append(errs, rt.db.Close())
	}
	if rt.closer != nil {
		errs = append(errs, rt.closer.Close())
	}
	return errors.Join(errs...)
}

// backend picks the data source configured by backend.mode.
func (rt *runtime) backend() (backend.Backend, error) {
	if rt.cfg.Backend.Mode == "remote" {
		return backend.NewClient(rt.cfg.Backend.BaseURL, rt.cfg.Backend.Timeout, rt.log), nil
	}
	if rt.db == nil {
		return nil, errors.New("local backend requires a database")
	}
	return localBackend(rt.db, rt.log), nil
}

func localBackend(db *sql.DB, log logrus.FieldLogger) *backend.Direct {
	repo := repository.NewArticleRepo(db)
	return &backend.Direct{
		Articles:  &service.ArticleService{Articles: repo, NewID: uuid.NewString},
		Dashboard: &service.DashboardService{Articles: repo},
		Log:       log,
	}
}

// newChecker grants from a casbin policy file when one is configured,
// otherwise from the flat permission list.
func newChecker(auth config.AuthConfig) (permission.Checker, error) {
	if auth.PolicyPath != "" {
		return permission.NewCasbinChecker(auth.PolicyPath, auth.Role)
	}
	return permission.NewSet(auth.Permissions...), nil
}
