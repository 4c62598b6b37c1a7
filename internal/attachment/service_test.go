package attachment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceChecksSecretBeforeInput(t *testing.T) {
	svc, backend := newTestService(t, 1024)

	_, err := svc.Upload(context.Background(), "wrong", File{})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.UploadImage(context.Background(), "", textFile("a.zip", "application/zip", "PK"))
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	assert.Zero(t, backend.putCount())
}

func TestServiceImagePathRejectsZipAttachmentPathAccepts(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, testSecret, textFile("archive.zip", "application/zip", "PK"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, backend.putCount(), "rejected before the object store is called")

	meta, err := svc.Upload(ctx, testSecret, textFile("archive.zip", "application/zip", "PK"))
	require.NoError(t, err)
	assert.Equal(t, "archive.zip", meta.Name)
	assert.Equal(t, "application/zip", meta.Type)
	assert.Equal(t, int64(2), meta.Size)
	assert.True(t, strings.HasSuffix(meta.StoredName, "_archive.zip"), meta.StoredName)
	assert.Equal(t, testBaseURL+"/"+meta.StoredName, meta.URL)
	assert.Equal(t, 1, backend.putCount())
}

func TestServiceImageCeiling(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	ctx := context.Background()

	exact := File{Name: "photo.png", Type: "image/png", Size: MaxImageBytes, Body: bytes.NewReader(make([]byte, MaxImageBytes))}
	meta, err := svc.UploadImage(ctx, testSecret, exact)
	require.NoError(t, err)
	assert.Equal(t, MaxImageBytes, meta.Size)

	over := File{Name: "photo.png", Type: "image/png", Size: MaxImageBytes + 1, Body: strings.NewReader("")}
	_, err = svc.UploadImage(ctx, testSecret, over)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, backend.putCount())
}

func TestServiceAttachmentCeiling(t *testing.T) {
	svc, backend := newTestService(t, 4)

	_, err := svc.Upload(context.Background(), testSecret, textFile("a.txt", "text/plain", "12345"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, backend.putCount())
}

func TestServiceStorageFailure(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	backend.putErr = errors.New("bucket unavailable")

	_, err := svc.Upload(context.Background(), testSecret, textFile("a.txt", "text/plain", "hi"))
	assert.ErrorIs(t, err, objectstore.ErrStorage)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestServiceRemove(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Remove(ctx, "wrong", "1_a.txt"), auth.ErrUnauthorized)
	assert.ErrorIs(t, svc.Remove(ctx, testSecret, ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.Remove(ctx, testSecret, "../etc/passwd"), ErrInvalidInput)
	assert.Zero(t, backend.deleteCount())

	require.NoError(t, svc.Remove(ctx, testSecret, "1_a.txt"))
	require.NoError(t, svc.Remove(ctx, testSecret, "1_a.txt"), "removal is idempotent")
	assert.Equal(t, []string{"1_a.txt", "1_a.txt"}, backend.deletes)
}
