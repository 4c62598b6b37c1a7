package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/objectstore"
	"github.com/abduss/pressroom/internal/storage"
)

// contentStore bundles the repository with the raw handle used by migrations.
type contentStore struct {
	repo  announcement.Repository
	db    *sql.DB
	close func()
}

func openContentStore(ctx context.Context, cfg config.Config) (*contentStore, error) {
	switch cfg.ContentStore.Driver {
	case config.ContentStorePostgres:
		pool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		db := storage.SQLFromPool(pool)
		return &contentStore{
			repo: announcement.NewPostgresRepository(pool),
			db:   db,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	case config.ContentStoreSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return &contentStore{
			repo:  announcement.NewSQLiteRepository(db),
			db:    db,
			close: func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content store driver %q", cfg.ContentStore.Driver)
	}
}

// openObjectStore connects the configured blob backend and returns a Store
// that serves keys under the public base URL.
func openObjectStore(ctx context.Context, cfg config.Config) (*objectstore.Store, func(), error) {
	bucket := cfg.ObjectStore.Bucket
	noop := func() {}

	var backend objectstore.Backend
	switch cfg.ObjectStore.Driver {
	case config.ObjectStoreMinIO:
		client, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, noop, err
		}
		if err := storage.EnsureBucket(ctx, client, bucket, cfg.MinIO.Region, cfg.MinIO.PublicRead); err != nil {
			return nil, noop, err
		}
		backend = objectstore.NewMinIOBackend(client, bucket)
	case config.ObjectStoreS3:
		client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		backend = objectstore.NewS3Backend(client, bucket)
	case config.ObjectStoreGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, noop, err
		}
		backend = objectstore.NewGCSBackend(client, bucket)
		return objectstore.New(backend, storage.PublicBaseURL(cfg)), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported object store driver %q", cfg.ObjectStore.Driver)
	}

	return objectstore.New(backend, storage.PublicBaseURL(cfg)), noop, nil
}
