package attachment

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/metrics"
	"github.com/abduss/pressroom/internal/objectstore"
)

type objectStore interface {
	Upload(ctx context.Context, body io.Reader, size int64, originalName, contentType string) (objectstore.Object, error)
	Remove(ctx context.Context, key string) error
}

// Service performs password-gated uploads and removals against the object store.
type Service struct {
	verifier    auth.Verifier
	store       objectStore
	attachments Policy
	images      Policy
}

// NewService constructs an attachment service. maxAttachmentBytes bounds the generic path.
func NewService(verifier auth.Verifier, store objectStore, maxAttachmentBytes int64) *Service {
	return &Service{
		verifier:    verifier,
		store:       store,
		attachments: AttachmentPolicy(maxAttachmentBytes),
		images:      ImagePolicy(),
	}
}

// Authorize checks secret without touching the object store.
func (s *Service) Authorize(secret string) error {
	return s.verifier.Verify(secret)
}

// MaxAttachmentBytes reports the generic upload ceiling.
func (s *Service) MaxAttachmentBytes() int64 {
	return s.attachments.MaxBytes
}

// Upload stores f through the generic attachment path.
func (s *Service) Upload(ctx context.Context, secret string, f File) (Meta, error) {
	return s.upload(ctx, secret, f, s.attachments)
}

// UploadImage stores f through the image path (allow-list plus 10 MiB ceiling).
func (s *Service) UploadImage(ctx context.Context, secret string, f File) (Meta, error) {
	return s.upload(ctx, secret, f, s.images)
}

func (s *Service) upload(ctx context.Context, secret string, f File, policy Policy) (Meta, error) {
	if err := s.verifier.Verify(secret); err != nil {
		metrics.ObserveUpload(policy.Name, metrics.ResultUnauthorized, 0)
		return Meta{}, err
	}
	if err := policy.Check(f); err != nil {
		metrics.ObserveUpload(policy.Name, metrics.ResultRejected, 0)
		return Meta{}, err
	}

	contentType := contentTypeOf(f)
	obj, err := s.store.Upload(ctx, f.Body, f.Size, f.Name, contentType)
	if err != nil {
		metrics.ObserveUpload(policy.Name, metrics.ResultError, 0)
		return Meta{}, err
	}
	metrics.ObserveUpload(policy.Name, metrics.ResultOK, obj.Size)

	return Meta{
		Name:       f.Name,
		URL:        obj.URL,
		Size:       obj.Size,
		Type:       contentType,
		StoredName: obj.Key,
	}, nil
}

// Remove deletes a previously uploaded blob. Removing a missing blob succeeds.
func (s *Service) Remove(ctx context.Context, secret, storedName string) error {
	if err := s.verifier.Verify(secret); err != nil {
		return err
	}
	storedName = strings.TrimSpace(storedName)
	if storedName == "" {
		return fmt.Errorf("%w: fileName is required", ErrInvalidInput)
	}
	if strings.ContainsAny(storedName, `/\`) || storedName == "." || storedName == ".." {
		return fmt.Errorf("%w: invalid fileName", ErrInvalidInput)
	}
	return s.store.Remove(ctx, storedName)
}
