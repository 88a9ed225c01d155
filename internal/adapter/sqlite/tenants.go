package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Opener opens a database from a data source name built by DSN.
type Opener func(dataSourceName string) (*sql.DB, error)

// DSN returns the data source name of the database file at path. The
// pragmas are applied by the driver to every connection it opens.
func DSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Open opens a SQLite database.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Writers serialize on SQLite's lock anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

// Tenants hands out one migrated database per tenant, stored as
// <dir>/<tenant>.db. Databases are opened on first use and kept open
// until Close.
type Tenants struct {
	dir  string
	open Opener

	mu  sync.RWMutex
	dbs map[string]*sql.DB
}

// NewTenants creates a tenant database set rooted at dir.
func NewTenants(dir string, open Opener) *Tenants {
	if open == nil {
		open = Open
	}
	return &Tenants{
		dir:  dir,
		open: open,
		dbs:  make(map[string]*sql.DB),
	}
}

// DB returns the database of the given tenant, creating and migrating it
// when needed. Tenant identifiers must already be validated.
func (t *Tenants) DB(ctx context.Context, tenant string) (*sql.DB, error) {
	t.mu.RLock()
	db, ok := t.dbs[tenant]
	t.mu.RUnlock()
	if ok {
		return db, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if db, ok := t.dbs[tenant]; ok {
		return db, nil
	}

	if err := os.MkdirAll(t.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := t.open(DSN(filepath.Join(t.dir, tenant+".db")))
	if err != nil {
		return nil, fmt.Errorf("opening tenant %q: %w", tenant, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating tenant %q: %w", tenant, err)
	}

	t.dbs[tenant] = db
	return db, nil
}

// Close closes every tenant database.
func (t *Tenants) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for tenant, db := range t.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing tenant %q: %w", tenant, err))
		}
		delete(t.dbs, tenant)
	}
	return errors.Join(errs...)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
