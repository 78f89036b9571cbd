package meme

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/metrics"
)

// Service handles meme record CRUD. Mutations of the same id are serialized.
type Service struct {
	repo  Repository
	locks stripedLock
	now   func() time.Time
}

// New creates a meme service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the creation-time clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Create validates and stores a new record together with its index entry.
func (s *Service) Create(ctx context.Context, d dommeme.Draft) (dommeme.Meme, error) {
	m, err := dommeme.New(d, s.now())
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	id, err := s.repo.Insert(ctx, m)
	observe("create", err)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("insert meme: %w", err)
	}
	return m.WithID(id), nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id int64) (dommeme.Meme, error) {
	memes, err := s.repo.GetByIDs(ctx, []int64{id})
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("get meme: %w", err)
	}
	if len(memes) == 0 {
		return dommeme.Meme{}, fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
	}
	return memes[0], nil
}

// Recent returns up to limit records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]dommeme.Meme, error) {
	memes, err := s.repo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent memes: %w", err)
	}
	return memes, nil
}

// Update applies a patch and replaces the record's index entry.
func (s *Service) Update(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	m, err := s.repo.UpdateFields(ctx, id, p)
	observe("update", err)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("update meme %d: %w", id, err)
	}
	return m, nil
}

// Delete removes a record and its index entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	unlock := s.locks.lock(id)
	defer unlock()

	err := s.repo.Delete(ctx, id)
	observe("delete", err)
	if err != nil {
		return fmt.Errorf("delete meme %d: %w", id, err)
	}
	return nil
}

func observe(op string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIndexConsistency):
		status = "index_error"
	case errors.Is(err, domain.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	metrics.MutationsTotal.WithLabelValues(op, status).Inc()
}
