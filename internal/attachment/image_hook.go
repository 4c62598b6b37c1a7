package attachment

import (
	"context"
	"fmt"
)

// ImageUploader sends a single file to the image upload path.
type ImageUploader interface {
	UploadImage(ctx context.Context, secret string, f File) (Meta, error)
}

// ImageHook serves inline image insertion for the content editor. It never
// modifies a WorkingSet.
type ImageHook struct {
	uploader ImageUploader
	policy   Policy
}

// NewImageHook constructs an ImageHook applying ImagePolicy locally.
func NewImageHook(uploader ImageUploader) *ImageHook {
	return &ImageHook{uploader: uploader, policy: ImagePolicy()}
}

// Upload validates and uploads exactly one image and returns its public URL.
func (h *ImageHook) Upload(ctx context.Context, secret string, files ...File) (string, error) {
	if len(files) != 1 {
		return "", fmt.Errorf("%w: exactly one image is required, got %d", ErrInvalidInput, len(files))
	}
	if err := h.policy.Check(files[0]); err != nil {
		return "", err
	}

	meta, err := h.uploader.UploadImage(ctx, secret, files[0])
	if err != nil {
		return "", err
	}
	return meta.URL, nil
}
