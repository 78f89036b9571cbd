package meme

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/memedex/internal/db"
	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

// Key layout.
const (
	KeyPrefix = "memedex:meme:"
	SeqKey    = "memedex:seq:meme"
	IndexName = "memedex:memes:idx"
)

// redisStore is the consumer interface for the Redis driver (ISP).
//
//nolint:interfacebloat // record hashes, id sequence and FT index in one place
type redisStore interface {
	Ping(ctx context.Context) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	ReplaceHash(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (db.IndexInfo, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Redis stores each record as a hash under KeyPrefix. The Redis Query
// Engine indexes hashes on write, so replacing a hash inside MULTI/EXEC
// replaces its index entry atomically.
type Redis struct {
	store redisStore
}

// NewRedis creates a repository. Call EnsureIndex once at startup.
func NewRedis(s redisStore) *Redis {
	return &Redis{store: s}
}

// IndexDefinition is the FT schema over record hashes. Queries address
// the word fields by their search field names.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(KeyPrefix).
		NoStopwords().
		ExactTextAs(hashWordsText, field.Text.String()).
		ExactTextAs(hashWordsDescription, field.Description.String()).
		ExactTextAs(hashWordsKeywords, field.Keywords.String()).
		ExactTextAs(hashWordsFilename, field.Filename.String()).
		SortableNumeric(hashCreatedAt).
		MustBuild()
}

// EnsureIndex creates the FT index unless it already exists.
func (r *Redis) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}
	def := IndexDefinition()
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index [%s]: %w", def, err)
	}
	return nil
}

func memeKey(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}

// Insert takes the next id from SeqKey and writes the hash.
func (r *Redis) Insert(ctx context.Context, m dommeme.Meme) (int64, error) {
	id, err := r.store.Incr(ctx, SeqKey)
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	m = m.WithID(id)
	if err := r.write(ctx, &m); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFields reads the hash, applies p and replaces the hash.
func (r *Redis) UpdateFields(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error) {
	h, err := r.store.HGetAll(ctx, memeKey(id))
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("hgetall %s: %w", memeKey(id), err)
	}
	if len(h) == 0 {
		return dommeme.Meme{}, fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
	}
	old, err := parseHashFields(h)
	if err != nil {
		return dommeme.Meme{}, err
	}
	updated, err := old.Apply(p)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	if err := r.write(ctx, &updated); err != nil {
		return dommeme.Meme{}, err
	}
	return updated, nil
}

func (r *Redis) write(ctx context.Context, m *dommeme.Meme) error {
	fields, err := buildHashFields(m)
	if err != nil {
		return err
	}
	if err := r.store.ReplaceHash(ctx, memeKey(m.ID()), fields); err != nil {
		if errors.Is(err, db.ErrTxAborted) {
			return fmt.Errorf("%w: meme %d: %w", domain.ErrIndexConsistency, m.ID(), err)
		}
		return fmt.Errorf("write %s: %w", memeKey(m.ID()), err)
	}
	return nil
}

// Delete removes the hash, which drops its index entry.
func (r *Redis) Delete(ctx context.Context, id int64) error {
	existed, err := r.store.Del(ctx, memeKey(id))
	if err != nil {
		return fmt.Errorf("del %s: %w", memeKey(id), err)
	}
	if !existed {
		return fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByIDs returns the known records among ids, in ids order.
func (r *Redis) GetByIDs(ctx context.Context, ids []int64) ([]dommeme.Meme, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = memeKey(id)
	}
	return r.load(ctx, keys)
}

func (r *Redis) load(ctx context.Context, keys []string) ([]dommeme.Meme, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load memes: %w", err)
	}
	out := make([]dommeme.Meme, 0, len(hashes))
	for _, h := range hashes {
		if len(h) == 0 {
			continue
		}
		m, err := parseHashFields(h)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// GetRecent returns up to limit records by created_at desc. The index sorts
// on one attribute only; callers order equal timestamps by id.
func (r *Redis) GetRecent(ctx context.Context, limit int) ([]dommeme.Meme, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLimit, limit)
	}
	res, err := r.store.Search(ctx, &db.TextQuery{
		IndexName: IndexName,
		Query:     "*",
		Limit:     limit,
		SortBy:    hashCreatedAt,
		SortDesc:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	keys := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		keys[i] = e.Key
	}
	return r.load(ctx, keys)
}

// Dialect reports Redis Query Engine syntax.
func (r *Redis) Dialect() compile.Dialect { return compile.RediSearch }

// Query runs the compiled query with FT.SEARCH ... WITHSCORES NOCONTENT.
func (r *Redis) Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error) {
	if q.Dialect != compile.RediSearch {
		return nil, fmt.Errorf("redis cannot run %q queries", q.Dialect)
	}
	res, err := r.store.Search(ctx, &db.TextQuery{
		IndexName:  IndexName,
		Query:      q.Native,
		Limit:      limit,
		WithScores: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]hit.Candidate, 0, len(res.Entries))
	for _, e := range res.Entries {
		id, err := idFromKey(e.Key, KeyPrefix)
		if err != nil {
			return nil, err
		}
		out = append(out, hit.Candidate{ID: id, Score: e.Score})
	}
	return out, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error { return r.store.Ping(ctx) }

// CheckIndex verifies the FT index exists and that the engine indexed
// every record hash it saw.
func (r *Redis) CheckIndex(ctx context.Context) error {
	info, err := r.store.IndexInfo(ctx, IndexName)
	if errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: index %s is missing", domain.ErrIndexConsistency, IndexName)
	}
	if err != nil {
		return err
	}
	if info.HashIndexingFailures > 0 {
		return fmt.Errorf("%w: %d record hashes failed to index",
			domain.ErrIndexConsistency, info.HashIndexingFailures)
	}
	return nil
}
