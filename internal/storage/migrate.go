package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/abduss/pressroom/internal/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

type migrationSet struct {
	dialect string
	dir     string
}

func migrationsFor(driver string) (migrationSet, error) {
	switch driver {
	case config.ContentStorePostgres:
		return migrationSet{dialect: "pgx", dir: "migrations/postgres"}, nil
	case config.ContentStoreSQLite:
		return migrationSet{dialect: "sqlite3", dir: "migrations/sqlite"}, nil
	default:
		return migrationSet{}, fmt.Errorf("no migrations for driver %q", driver)
	}
}

func withGoose(driver string, fn func(dir string) error) error {
	set, err := migrationsFor(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(set.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn(set.dir)
}

// MigrateUp applies every pending migration for the given content store driver.
func MigrateUp(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func(dir string) error {
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func(dir string) error {
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		return nil
	})
}

// MigrateStatus prints the applied state of each migration through goose's logger.
func MigrateStatus(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func(dir string) error {
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

// MigrationFiles lists the embedded migration files for a driver.
func MigrationFiles(driver string) ([]string, error) {
	set, err := migrationsFor(driver)
	if err != nil {
		return nil, err
	}
	return fs.Glob(migrationFS, set.dir+"/*.sql")
}
