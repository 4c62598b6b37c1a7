package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/authoring"
	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/objectstore"
	"github.com/abduss/pressroom/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

type memoryBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *memoryBackend) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (int64, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return int64(len(data)), nil
}

func (b *memoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memoryBackend) Ping(context.Context) error { return nil }

func (b *memoryBackend) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func newTestServer(t *testing.T) (*Client, *memoryBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := storage.OpenSQLite(ctx, config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "pressroom.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.MigrateUp(ctx, db, config.ContentStoreSQLite))

	verifier := auth.NewStaticVerifier(testSecret)
	backend := &memoryBackend{objects: map[string][]byte{}}

	router := gin.New()
	announcement.RegisterRoutes(router, announcement.NewService(announcement.NewSQLiteRepository(db), verifier, 0, 0), 0, nil)
	attachment.RegisterRoutes(router, attachment.NewService(verifier, objectstore.New(backend, "https://cdn.example.com/pressroom"), 1024), nil)
	auth.RegisterRoutes(router, verifier, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), backend
}

func TestHTTPTimeoutFromEnv(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "")
		assert.Equal(t, defaultHTTPTimeout, httpTimeoutFromEnv())
	})
	t.Run("duration format", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "45s")
		assert.Equal(t, 45*time.Second, httpTimeoutFromEnv())
	})
	t.Run("integer seconds", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "25")
		assert.Equal(t, 25*time.Second, httpTimeoutFromEnv())
	})
	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "invalid")
		assert.Equal(t, defaultHTTPTimeout, httpTimeoutFromEnv())
	})
}

func TestClientCRUD(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	_, err := client.Create(ctx, "wrong", announcement.Input{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = client.Create(ctx, testSecret, announcement.Input{Title: "", Content: "c"})
	assert.ErrorIs(t, err, announcement.ErrInvalidInput)

	created, err := client.Create(ctx, testSecret, announcement.Input{Title: "공지", Content: "<p>내용</p>"})
	require.NoError(t, err)
	assert.NotNil(t, created.Attachments)

	got, err := client.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "공지", got.Title)

	updated, err := client.Update(ctx, testSecret, created.ID.String(), announcement.Input{Title: "공지(수정)", Content: "<p>내용</p>"})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, client.Delete(ctx, testSecret, created.ID.String()))
	_, err = client.Get(ctx, created.ID.String())
	assert.ErrorIs(t, err, announcement.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "announcement not found", apiErr.Error())
}

func TestClientUploads(t *testing.T) {
	client, backend := newTestServer(t)
	ctx := context.Background()

	meta, err := client.Upload(ctx, testSecret, attachment.File{
		Name: `report "final".pdf`, Type: "application/pdf", Size: 4, Body: strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, `report "final".pdf`, meta.Name)
	assert.Equal(t, int64(4), meta.Size)
	assert.NotEmpty(t, meta.StoredName)
	assert.Equal(t, 1, backend.len())

	_, err = client.UploadImage(ctx, testSecret, attachment.File{
		Name: "a.zip", Type: "application/zip", Size: 2, Body: strings.NewReader("PK"),
	})
	assert.ErrorIs(t, err, attachment.ErrInvalidInput)

	_, err = client.Upload(ctx, "wrong", attachment.File{Name: "a.txt", Size: 1, Body: strings.NewReader("a")})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	require.NoError(t, client.RemoveUpload(ctx, testSecret, meta.StoredName))
	assert.Zero(t, backend.len())
}

func TestClientVerify(t *testing.T) {
	client, _ := newTestServer(t)

	assert.NoError(t, client.Verify(context.Background(), testSecret))
	assert.ErrorIs(t, client.Verify(context.Background(), "nope"), auth.ErrUnauthorized)
}

func TestAuthoringSessionOverHTTP(t *testing.T) {
	client, backend := newTestServer(t)
	ctx := context.Background()
	deps := authoring.Deps{Publisher: client, Uploader: client, Images: client}

	s := authoring.NewDraft(testSecret, deps)
	require.NoError(t, s.SetTitle("신간 안내"))
	require.NoError(t, s.SetContent("<p>본문</p>"))

	_, err := s.AddFiles(ctx, []attachment.File{
		{Name: "A.pdf", Type: "application/pdf", Size: 1, Body: strings.NewReader("a")},
		{Name: "B.pdf", Type: "application/pdf", Size: 1, Body: strings.NewReader("b")},
		{Name: "C.pdf", Type: "application/pdf", Size: 1, Body: strings.NewReader("c")},
	})
	require.NoError(t, err)
	_, err = s.RemoveAttachment(1)
	require.NoError(t, err)

	_, err = s.InsertImage(ctx, 3, attachment.File{Name: "cover.png", Type: "image/png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)

	a, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, authoring.Persisted, s.State())
	require.Len(t, a.Attachments, 2)
	assert.Equal(t, "A.pdf", a.Attachments[0].Name)
	assert.Equal(t, "C.pdf", a.Attachments[1].Name)
	assert.True(t, strings.HasPrefix(string(a.Content), `<p><img src="https://cdn.example.com/pressroom/`), string(a.Content))

	// B was removed from the draft but its blob stays in the bucket
	assert.Equal(t, 4, backend.len())

	reopened, err := authoring.Open(ctx, testSecret, a.ID.String(), deps)
	require.NoError(t, err)
	assert.Equal(t, authoring.Loaded, reopened.State())
	assert.Len(t, reopened.Attachments(), 2)

	_, err = authoring.Open(ctx, testSecret, uuid.NewString(), deps)
	assert.ErrorIs(t, err, announcement.ErrNotFound)
}
