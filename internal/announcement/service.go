package announcement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/metrics"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const listCacheKey = "all"

// Service applies the password gate and field rules in front of a Repository.
// Reads go through a short-lived cache that every successful mutation purges.
type Service struct {
	repo     Repository
	verifier auth.Verifier

	lists *expirable.LRU[string, []Announcement]
	items *expirable.LRU[uuid.UUID, Announcement]

	// generation counts purges; a read only fills the cache if none ran
	// while it was loading from the repository.
	cacheMu    sync.Mutex
	generation uint64
}

// NewService constructs the service. A non-positive cacheTTL disables read caching.
func NewService(repo Repository, verifier auth.Verifier, cacheTTL time.Duration, cacheSize int) *Service {
	s := &Service{repo: repo, verifier: verifier}
	if cacheTTL > 0 {
		if cacheSize <= 0 {
			cacheSize = 1
		}
		s.lists = expirable.NewLRU[string, []Announcement](1, nil, cacheTTL)
		s.items = expirable.NewLRU[uuid.UUID, Announcement](cacheSize, nil, cacheTTL)
	}
	return s
}

// Create validates and persists a new announcement.
func (s *Service) Create(ctx context.Context, secret string, in Input) (Announcement, error) {
	if err := s.verifier.Verify(secret); err != nil {
		metrics.ObserveMutation("create", metrics.ResultUnauthorized)
		return Announcement{}, err
	}
	in, err := normalize(in)
	if err != nil {
		metrics.ObserveMutation("create", metrics.ResultRejected)
		return Announcement{}, err
	}

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		metrics.ObserveMutation("create", metrics.ResultError)
		return Announcement{}, err
	}
	s.purge()
	metrics.ObserveMutation("create", metrics.ResultOK)
	return created, nil
}

// Get returns one announcement. An id that is not a UUID is reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, rawID string) (Announcement, error) {
	id, err := parseID(rawID)
	if err != nil {
		return Announcement{}, err
	}
	if s.items != nil {
		if a, ok := s.items.Get(id); ok {
			return clone(a), nil
		}
	}

	gen := s.cacheGeneration()
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	s.fill(gen, func() { s.items.Add(id, clone(a)) })
	return a, nil
}

// List returns every announcement, newest first.
func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	if s.lists != nil {
		if list, ok := s.lists.Get(listCacheKey); ok {
			return cloneList(list), nil
		}
	}

	gen := s.cacheGeneration()
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Announcement{}
	}
	s.fill(gen, func() { s.lists.Add(listCacheKey, cloneList(list)) })
	return list, nil
}

// Update replaces the announcement's title, content and attachments.
func (s *Service) Update(ctx context.Context, secret, rawID string, in Input) (Announcement, error) {
	if err := s.verifier.Verify(secret); err != nil {
		metrics.ObserveMutation("update", metrics.ResultUnauthorized)
		return Announcement{}, err
	}
	id, err := parseID(rawID)
	if err != nil {
		metrics.ObserveMutation("update", metrics.ResultRejected)
		return Announcement{}, err
	}
	in, err = normalize(in)
	if err != nil {
		metrics.ObserveMutation("update", metrics.ResultRejected)
		return Announcement{}, err
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		metrics.ObserveMutation("update", resultFor(err))
		return Announcement{}, err
	}
	s.purge()
	metrics.ObserveMutation("update", metrics.ResultOK)
	return updated, nil
}

// Delete removes the record only; its attachment blobs stay in the object store.
func (s *Service) Delete(ctx context.Context, secret, rawID string) error {
	if err := s.verifier.Verify(secret); err != nil {
		metrics.ObserveMutation("delete", metrics.ResultUnauthorized)
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		metrics.ObserveMutation("delete", metrics.ResultRejected)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveMutation("delete", resultFor(err))
		return err
	}
	s.purge()
	metrics.ObserveMutation("delete", metrics.ResultOK)
	return nil
}

// Ping reports content store health.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) purge() {
	if s.lists == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.lists.Purge()
	s.items.Purge()
}

func (s *Service) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// fill runs add unless a purge happened after gen was taken.
func (s *Service) fill(gen uint64, add func()) {
	if s.lists == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation == gen {
		add()
	}
}

// Validate applies the field rules shared by create and update.
func Validate(in Input) error {
	_, err := normalize(in)
	return err
}

func normalize(in Input) (Input, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Input{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Content.IsBlank() {
		return Input{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if in.Attachments == nil {
		in.Attachments = []attachment.Meta{}
	}
	return in, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}

func resultFor(err error) string {
	if errors.Is(err, ErrNotFound) {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}

func clone(a Announcement) Announcement {
	a.Attachments = append([]attachment.Meta{}, a.Attachments...)
	return a
}

func cloneList(list []Announcement) []Announcement {
	out := make([]Announcement, len(list))
	for i, a := range list {
		out[i] = clone(a)
	}
	return out
}
