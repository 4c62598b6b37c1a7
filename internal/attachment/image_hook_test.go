package attachment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageHookValidatesLocally(t *testing.T) {
	uploader := &fakeUploader{}
	hook := NewImageHook(uploader)
	ctx := context.Background()

	_, err := hook.Upload(ctx, testSecret, textFile("archive.zip", "application/zip", "PK"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooBig := File{Name: "big.png", Type: "image/png", Size: MaxImageBytes + 1, Body: strings.NewReader("")}
	_, err = hook.Upload(ctx, testSecret, tooBig)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Empty(t, uploader.calls, "no network call for invalid input")
}

func TestImageHookRequiresExactlyOneFile(t *testing.T) {
	hook := NewImageHook(&fakeUploader{})
	img := textFile("a.png", "image/png", "x")

	_, err := hook.Upload(context.Background(), testSecret)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = hook.Upload(context.Background(), testSecret, img, img)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImageHookReturnsURL(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	hook := NewImageHook(svc)

	url, err := hook.Upload(context.Background(), testSecret, textFile("figure 1.png", "image/png", "png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, testBaseURL+"/"), url)
	assert.True(t, strings.HasSuffix(url, "_figure_1.png"), url)
	assert.Equal(t, 1, backend.putCount())
}

func TestImageHookPropagatesUploadError(t *testing.T) {
	boom := errors.New("boom")
	hook := NewImageHook(&fakeUploader{failOn: "a.png", err: boom})

	_, err := hook.Upload(context.Background(), testSecret, textFile("a.png", "image/png", "x"))
	assert.ErrorIs(t, err, boom)
}
