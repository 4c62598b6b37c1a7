// Package objectstore uploads and removes public blobs on a managed bucket.
package objectstore

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

const defaultObjectTimeout = 60 * time.Second

// Backend is the minimal blob API a managed bucket has to provide.
type Backend interface {
	// Put writes the object and reports the number of bytes stored.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (int64, error)
	// Delete removes the object; a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Object describes a blob written by Upload.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Store names uploads, writes them through a Backend and builds their public URLs.
// Nothing here expires or garbage-collects blobs; cleanup is the caller's job.
type Store struct {
	backend       Backend
	publicBaseURL string
	nowFunc       func() time.Time
	timeout       time.Duration
}

// New constructs a Store. publicBaseURL is the prefix under which keys are served.
func New(backend Backend, publicBaseURL string) *Store {
	return &Store{
		backend:       backend,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		nowFunc:       time.Now,
		timeout:       defaultObjectTimeout,
	}
}

// Upload stores body under a fresh key derived from originalName.
func (s *Store) Upload(ctx context.Context, body io.Reader, size int64, originalName, contentType string) (Object, error) {
	key := StoredName(s.nowFunc(), originalName)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	written, err := s.backend.Put(ctx, key, body, size, contentType)
	if err != nil {
		return Object{}, &Error{Op: "put", Key: key, Err: err}
	}
	if written <= 0 {
		written = size
	}

	return Object{
		Key:         key,
		URL:         s.PublicURL(key),
		Size:        written,
		ContentType: contentType,
	}, nil
}

// Remove deletes key. Removing a key that does not exist succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.Delete(ctx, key); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// PublicURL returns the public retrieval URL for key.
func (s *Store) PublicURL(key string) string {
	return s.publicBaseURL + "/" + url.PathEscape(key)
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}
