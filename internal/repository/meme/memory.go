package meme

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

// Indexer is an in-process full-text index fed by Memory.
type Indexer interface {
	Dialect() compile.Dialect
	Put(ctx context.Context, id int64, v field.Values) error
	Remove(ctx context.Context, id int64) error
	Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error)
}

// Memory keeps records in a map and mirrors every mutation into an Indexer
// under the same write lock.
type Memory struct {
	mu      sync.RWMutex
	records map[int64]dommeme.Meme
	lastID  int64
	index   Indexer
}

// NewMemory creates an empty store backed by index.
func NewMemory(index Indexer) *Memory {
	return &Memory{records: make(map[int64]dommeme.Meme), index: index}
}

// Insert assigns the next id and indexes the record. Nothing is stored when
// indexing fails.
func (r *Memory) Insert(ctx context.Context, m dommeme.Meme) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.lastID + 1
	m = m.WithID(id)
	if err := r.index.Put(ctx, id, m.SearchValues()); err != nil {
		return 0, fmt.Errorf("%w: index meme %d: %w", domain.ErrIndexConsistency, id, err)
	}
	r.records[id] = m
	r.lastID = id
	return id, nil
}

// UpdateFields applies p, then drops and re-adds the index entry. When the
// new entry cannot be added the old one is restored.
func (r *Memory) UpdateFields(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.records[id]
	if !ok {
		return dommeme.Meme{}, fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
	}
	updated, err := old.Apply(p)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}

	if err := r.index.Remove(ctx, id); err != nil {
		return dommeme.Meme{}, fmt.Errorf("%w: unindex meme %d: %w", domain.ErrIndexConsistency, id, err)
	}
	if err := r.index.Put(ctx, id, updated.SearchValues()); err != nil {
		var merr *multierror.Error
		merr = multierror.Append(merr, err)
		if rbErr := r.index.Put(context.WithoutCancel(ctx), id, old.SearchValues()); rbErr != nil {
			merr = multierror.Append(merr, fmt.Errorf("restore: %w", rbErr))
		}
		return dommeme.Meme{}, fmt.Errorf("%w: reindex meme %d: %w", domain.ErrIndexConsistency, id, merr.ErrorOrNil())
	}

	r.records[id] = updated
	return updated, nil
}

// Delete removes the record and its index entry.
func (r *Memory) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
	}
	if err := r.index.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: unindex meme %d: %w", domain.ErrIndexConsistency, id, err)
	}
	delete(r.records, id)
	return nil
}

// GetByIDs returns the known records among ids, in ids order.
func (r *Memory) GetByIDs(_ context.Context, ids []int64) ([]dommeme.Meme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dommeme.Meme, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.records[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetRecent returns up to limit records, newest first, ties by id desc.
func (r *Memory) GetRecent(_ context.Context, limit int) ([]dommeme.Meme, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLimit, limit)
	}

	r.mu.RLock()
	all := make([]dommeme.Meme, 0, len(r.records))
	for _, m := range r.records {
		all = append(all, m)
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b dommeme.Meme) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID(), a.ID())
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Dialect reports the dialect of the underlying index.
func (r *Memory) Dialect() compile.Dialect { return r.index.Dialect() }

// Query runs q against the index. The index is read-locked by itself, so
// searches do not block on record reads.
func (r *Memory) Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error) {
	return r.index.Query(ctx, q, limit)
}

// Ping always succeeds.
func (r *Memory) Ping(context.Context) error { return nil }

// CheckIndex always succeeds: the index lives in this process.
func (r *Memory) CheckIndex(context.Context) error { return nil }
