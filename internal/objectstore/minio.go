package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOBackend adapts minio.Client to Backend.
type MinIOBackend struct {
	client *minio.Client
	bucket string
}

// NewMinIOBackend constructs an adapter for one bucket.
func NewMinIOBackend(client *minio.Client, bucket string) *MinIOBackend {
	return &MinIOBackend{client: client, bucket: bucket}
}

func (b *MinIOBackend) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (int64, error) {
	info, err := b.client.PutObject(ctx, b.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (b *MinIOBackend) Delete(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}
	return err
}

func (b *MinIOBackend) Ping(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", b.bucket)
	}
	return nil
}
