package storage

import (
	"fmt"
	"strings"

	"github.com/abduss/pressroom/internal/config"
)

// PublicBaseURL returns the prefix under which uploaded objects are served.
// OBJECT_STORE_PUBLIC_BASE_URL wins; otherwise each driver's native URL layout is used.
func PublicBaseURL(cfg config.Config) string {
	if base := strings.TrimSpace(cfg.ObjectStore.PublicBaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}

	bucket := cfg.ObjectStore.Bucket
	switch cfg.ObjectStore.Driver {
	case config.ObjectStoreS3:
		if cfg.S3.Endpoint != "" {
			return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3.Endpoint, "/"), bucket)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.S3.Region)
	case config.ObjectStoreGCS:
		return fmt.Sprintf("https://storage.googleapis.com/%s", bucket)
	default:
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, minioEndpoint(cfg.MinIO), bucket)
	}
}
