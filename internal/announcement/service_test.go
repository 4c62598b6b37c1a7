package announcement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

// countingRepository wraps a Repository and counts calls per method.
type countingRepository struct {
	Repository
	mu    sync.Mutex
	calls map[string]int
	fail  error
}

func newCountingRepository(inner Repository) *countingRepository {
	return &countingRepository{Repository: inner, calls: map[string]int{}}
}

func (r *countingRepository) count(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
}

func (r *countingRepository) get(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *countingRepository) writes() int {
	return r.get("create") + r.get("update") + r.get("delete")
}

func (r *countingRepository) Create(ctx context.Context, in Input) (Announcement, error) {
	r.count("create")
	if r.fail != nil {
		return Announcement{}, r.fail
	}
	return r.Repository.Create(ctx, in)
}

func (r *countingRepository) Get(ctx context.Context, id uuid.UUID) (Announcement, error) {
	r.count("get")
	return r.Repository.Get(ctx, id)
}

func (r *countingRepository) List(ctx context.Context) ([]Announcement, error) {
	r.count("list")
	return r.Repository.List(ctx)
}

func (r *countingRepository) Update(ctx context.Context, id uuid.UUID, in Input) (Announcement, error) {
	r.count("update")
	return r.Repository.Update(ctx, id, in)
}

func (r *countingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.count("delete")
	return r.Repository.Delete(ctx, id)
}

func newTestService(t *testing.T, cacheTTL time.Duration) (*Service, *countingRepository) {
	t.Helper()
	repo := newCountingRepository(newSQLiteRepository(t))
	return NewService(repo, auth.NewStaticVerifier(testSecret), cacheTTL, 16), repo
}

func TestMutationsRequireSecret(t *testing.T) {
	svc, repo := newTestService(t, 0)
	ctx := context.Background()

	existing, err := svc.Create(ctx, testSecret, Input{Title: "t", Content: "c"})
	require.NoError(t, err)
	before, err := svc.Get(ctx, existing.ID.String())
	require.NoError(t, err)

	for _, secret := range []string{"", "wrong", "secret "} {
		_, err := svc.Create(ctx, secret, Input{Title: "t", Content: "c"})
		assert.ErrorIs(t, err, auth.ErrUnauthorized)

		_, err = svc.Update(ctx, secret, existing.ID.String(), Input{Title: "changed", Content: "c"})
		assert.ErrorIs(t, err, auth.ErrUnauthorized)

		assert.ErrorIs(t, svc.Delete(ctx, secret, existing.ID.String()), auth.ErrUnauthorized)
	}

	assert.Equal(t, 1, repo.writes(), "only the setup create reached the store")
	after, err := svc.Get(ctx, existing.ID.String())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSecretCheckedBeforeFields(t *testing.T) {
	svc, _ := newTestService(t, 0)

	_, err := svc.Create(context.Background(), "wrong", Input{})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.Update(context.Background(), "wrong", "not-a-uuid", Input{})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestRequiredFields(t *testing.T) {
	svc, repo := newTestService(t, 0)
	ctx := context.Background()

	existing, err := svc.Create(ctx, testSecret, Input{Title: "t", Content: "c"})
	require.NoError(t, err)

	invalid := []Input{
		{Title: "", Content: "c"},
		{Title: "   ", Content: "c"},
		{Title: "t", Content: ""},
		{Title: "t", Content: "\n"},
	}
	for _, in := range invalid {
		_, err := svc.Create(ctx, testSecret, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "create %+v", in)

		_, err = svc.Update(ctx, testSecret, existing.ID.String(), in)
		assert.ErrorIs(t, err, ErrInvalidInput, "update %+v", in)
	}

	assert.Equal(t, 1, repo.get("create"))
	assert.Zero(t, repo.get("update"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAttachmentMetadataIsStoredAsGiven(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	// legacy entries without a url or storedName are carried through untouched
	in := Input{Title: "t", Content: "c", Attachments: []attachment.Meta{{Name: "a.pdf", Size: 3}}}
	created, err := svc.Create(ctx, testSecret, in)
	require.NoError(t, err)
	assert.Equal(t, in.Attachments, created.Attachments)

	got, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, in.Attachments, got.Attachments)
}

func TestCreateDefaultsAttachments(t *testing.T) {
	svc, _ := newTestService(t, 0)

	a, err := svc.Create(context.Background(), testSecret, Input{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.NotNil(t, a.Attachments)
	assert.Empty(t, a.Attachments)
}

func TestUnknownOrMalformedID(t *testing.T) {
	svc, repo := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, testSecret, "42", Input{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, testSecret, uuid.NewString()), ErrNotFound)

	assert.Zero(t, repo.get("update"))
}

func TestStoreFailureSurfaces(t *testing.T) {
	svc, repo := newTestService(t, 0)
	repo.fail = &StoreError{Op: "create", Err: errors.New("disk I/O error")}

	_, err := svc.Create(context.Background(), testSecret, Input{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, 1, repo.get("create"), "no retry")
}

func TestReadCacheIsPurgedByMutations(t *testing.T) {
	svc, repo := newTestService(t, time.Minute)
	ctx := context.Background()

	first, err := svc.Create(ctx, testSecret, Input{Title: "one", Content: "c"})
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.get("list"), "second read served from cache")

	_, err = svc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	_, err = svc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.get("get"))

	_, err = svc.Update(ctx, testSecret, first.ID.String(), Input{Title: "one (edited)", Content: "c"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "one (edited)", got.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "one (edited)", list[0].Title)
	assert.Equal(t, 2, repo.get("list"))
}

func TestCachedListIsNotShared(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, testSecret, Input{
		Title:       "t",
		Content:     "c",
		Attachments: []attachment.Meta{{Name: "a.pdf", URL: "https://x/a.pdf"}},
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	list[0].Attachments[0].Name = "mutated"

	again, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", again[0].Attachments[0].Name)
}

// stallingRepository holds reads after they hit the store until released,
// so a mutation can land between the load and the cache fill.
type stallingRepository struct {
	Repository
	loaded  chan struct{}
	release chan struct{}
}

func (r *stallingRepository) stall() {
	if r.release == nil {
		return
	}
	r.loaded <- struct{}{}
	<-r.release
}

func (r *stallingRepository) Get(ctx context.Context, id uuid.UUID) (Announcement, error) {
	a, err := r.Repository.Get(ctx, id)
	r.stall()
	return a, err
}

func (r *stallingRepository) List(ctx context.Context) ([]Announcement, error) {
	list, err := r.Repository.List(ctx)
	r.stall()
	return list, err
}

func TestReadOverlappingUpdateDoesNotCacheStaleData(t *testing.T) {
	repo := &stallingRepository{Repository: newSQLiteRepository(t)}
	svc := NewService(repo, auth.NewStaticVerifier(testSecret), time.Minute, 16)
	ctx := context.Background()

	created, err := svc.Create(ctx, testSecret, Input{Title: "old", Content: "c"})
	require.NoError(t, err)
	id := created.ID.String()

	repo.loaded = make(chan struct{})
	repo.release = make(chan struct{})

	type getResult struct {
		a   Announcement
		err error
	}
	gotOne := make(chan getResult, 1)
	go func() {
		a, err := svc.Get(ctx, id)
		gotOne <- getResult{a, err}
	}()
	<-repo.loaded

	gotList := make(chan error, 1)
	go func() {
		_, err := svc.List(ctx)
		gotList <- err
	}()
	<-repo.loaded

	_, err = svc.Update(ctx, testSecret, id, Input{Title: "new", Content: "c"})
	require.NoError(t, err)

	close(repo.release)
	first := <-gotOne
	require.NoError(t, first.err)
	assert.Equal(t, "old", first.a.Title, "the overlapping read itself may return what it loaded")
	require.NoError(t, <-gotList)
	repo.release = nil

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Title)
}
