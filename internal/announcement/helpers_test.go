package announcement

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/storage"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	db, err := storage.OpenSQLite(ctx, config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "pressroom.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.MigrateUp(ctx, db, config.ContentStoreSQLite))

	return NewSQLiteRepository(db)
}

// steppingClock returns t0, t0+step, t0+2*step, ...
func steppingClock(t0 time.Time, step time.Duration) func() time.Time {
	next := t0
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
