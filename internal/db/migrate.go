package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mg3/promag-api/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator returns a migrator over the embedded migrations, or over
// MIGRATIONS_SOURCE (e.g. file://internal/db/migrations) when configured.
func NewMigrator(cfg config.Config) (*migrate.Migrate, error) {
	dsn := DSN(cfg)
	if cfg.Database.MigrationsSource != "" {
		m, err := migrate.New(cfg.Database.MigrationsSource, dsn)
		if err != nil {
			return nil, fmt.Errorf("init migrator failed: %w", err)
		}
		return m, nil
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending up migration. An up-to-date schema is not an error.
func MigrateUp(cfg config.Config) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// upMigrations returns the embedded up scripts in version order.
func upMigrations() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(body)) == "" {
			continue
		}
		scripts = append(scripts, string(body))
	}
	return scripts, nil
}
