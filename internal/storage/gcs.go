package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/abduss/pressroom/internal/config"
	"google.golang.org/api/option"
)

// NewGCSClient builds a Cloud Storage client, falling back to application
// default credentials when no credentials file is configured.
func NewGCSClient(ctx context.Context, cfg config.GCSConfig) (*gcs.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create cloud storage client: %w", err)
	}
	return client, nil
}
