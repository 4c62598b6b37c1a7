package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abduss/pressroom/internal/config"
	_ "modernc.org/sqlite"
)

const sqliteConnMaxLifetime = 5 * time.Minute

// OpenSQLite opens the local database file. Pragmas go through the DSN so every
// pooled connection gets them.
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// single writer; SQLite serialises writes anyway
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(sqliteConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, defaultDBTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}
