package attachment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(metas []Meta) []string {
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.Name)
	}
	return out
}

func TestAddFilesKeepsSubmissionOrder(t *testing.T) {
	uploader := &fakeUploader{delay: map[string]time.Duration{
		"A": 30 * time.Millisecond,
		"B": time.Millisecond,
		"C": 10 * time.Millisecond,
	}}
	manager := NewManager(uploader)

	metas, err := manager.AddFiles(context.Background(), testSecret, []File{
		textFile("A", "text/plain", "a"),
		textFile("B", "text/plain", "b"),
		textFile("C", "text/plain", "c"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(metas))
	assert.Equal(t, []string{"A", "B", "C"}, uploader.calls)
}

func TestAddFilesStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	uploader := &fakeUploader{failOn: "B", err: boom}
	manager := NewManager(uploader)

	metas, err := manager.AddFiles(context.Background(), testSecret, []File{
		textFile("A", "text/plain", "a"),
		textFile("B", "text/plain", "b"),
		textFile("C", "text/plain", "c"),
	})
	assert.Nil(t, metas)
	assert.ErrorIs(t, err, boom)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "B", batchErr.Failed)
	assert.Equal(t, []string{"A"}, names(batchErr.Uploaded))
	assert.Equal(t, []string{"A", "B"}, uploader.calls, "C is never attempted")
}

func TestAddFilesLeavesEarlierUploadsOrphaned(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	backend.putErr = errors.New("disk full")
	backend.failOn = "second"
	manager := NewManager(svc)
	ws := NewWorkingSet(nil)

	metas, err := manager.AddFiles(context.Background(), testSecret, []File{
		textFile("first.txt", "text/plain", "1"),
		textFile("second.txt", "text/plain", "2"),
	})
	require.Error(t, err)
	ws.Append(metas...)

	assert.Zero(t, ws.Len(), "nothing is appended on failure")
	assert.Equal(t, 1, backend.putCount(), "first upload stays in the bucket")
	assert.Zero(t, backend.deleteCount(), "no rollback")
}

func TestAddFilesUnauthorized(t *testing.T) {
	svc, backend := newTestService(t, 1024)
	manager := NewManager(svc)

	_, err := manager.AddFiles(context.Background(), "nope", []File{textFile("a.txt", "text/plain", "a")})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Zero(t, backend.putCount())
}

func TestAddFilesEmptyBatch(t *testing.T) {
	metas, err := NewManager(&fakeUploader{}).AddFiles(context.Background(), testSecret, nil)
	require.NoError(t, err)
	assert.Empty(t, metas)
}
