package attachment

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/objectstore"
)

const (
	testSecret  = "secret"
	testBaseURL = "https://cdn.example.com/pressroom"
)

type fakeBackend struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
	failOn  string
	putErr  error
}

func (f *fakeBackend) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil && (f.failOn == "" || strings.Contains(key, f.failOn)) {
		return 0, f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, err
	}
	f.puts = append(f.puts, key)
	return int64(len(data)), nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeBackend) Ping(context.Context) error { return nil }

func (f *fakeBackend) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts)
}

func (f *fakeBackend) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletes)
}

func newTestService(t *testing.T, maxBytes int64) (*Service, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	store := objectstore.New(backend, testBaseURL)
	return NewService(auth.NewStaticVerifier(testSecret), store, maxBytes), backend
}

func textFile(name, contentType, body string) File {
	return File{Name: name, Type: contentType, Size: int64(len(body)), Body: strings.NewReader(body)}
}

// fakeUploader records call order and can fail or stall on chosen names.
type fakeUploader struct {
	calls  []string
	delay  map[string]time.Duration
	failOn string
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, _ string, file File) (Meta, error) {
	return f.record(ctx, file)
}

func (f *fakeUploader) UploadImage(ctx context.Context, _ string, file File) (Meta, error) {
	return f.record(ctx, file)
}

func (f *fakeUploader) record(ctx context.Context, file File) (Meta, error) {
	f.calls = append(f.calls, file.Name)
	if d := f.delay[file.Name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Meta{}, ctx.Err()
		}
	}
	if file.Name == f.failOn {
		return Meta{}, f.err
	}
	return Meta{
		Name:       file.Name,
		URL:        testBaseURL + "/" + file.Name,
		Size:       file.Size,
		Type:       file.Type,
		StoredName: "1_" + file.Name,
	}, nil
}
