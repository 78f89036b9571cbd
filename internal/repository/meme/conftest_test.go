package meme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/memedex/internal/db"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMeme(t *testing.T, text string, keywords ...string) dommeme.Meme {
	t.Helper()
	return newMemeAt(t, text, baseTime, keywords...)
}

func newMemeAt(t *testing.T, text string, at time.Time, keywords ...string) dommeme.Meme {
	t.Helper()
	m, err := dommeme.New(dommeme.Draft{
		Path:        "funny/" + text + ".jpg",
		Filename:    text + ".jpg",
		Category:    "funny",
		Hash:        "h-" + text,
		Text:        text,
		Description: "a picture",
		Keywords:    keywords,
	}, at)
	if err != nil {
		t.Fatalf("new meme: %v", err)
	}
	return m
}

func strPtr(s string) *string { return &s }

var errIndex = errors.New("index unavailable")

// fakeIndexer records calls and fails on demand.
type fakeIndexer struct {
	entries   map[int64]field.Values
	putErr    func(id int64, v field.Values) error
	removeErr error
	puts      int
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{entries: make(map[int64]field.Values)}
}

func (f *fakeIndexer) Dialect() compile.Dialect { return compile.Tree }

func (f *fakeIndexer) Put(_ context.Context, id int64, v field.Values) error {
	f.puts++
	if f.putErr != nil {
		if err := f.putErr(id, v); err != nil {
			return err
		}
	}
	f.entries[id] = v
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeIndexer) Query(context.Context, compile.Query, int) ([]hit.Candidate, error) {
	return nil, nil
}

// mockRedis implements redisStore for tests.
type mockRedis struct {
	pingFn         func(ctx context.Context) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	replaceHashFn  func(ctx context.Context, key string, fields map[string]string) error
	delFn          func(ctx context.Context, key string) (bool, error)
	incrFn         func(ctx context.Context, key string) (int64, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	indexInfoFn    func(ctx context.Context, name string) (db.IndexInfo, error)
	searchFn       func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockRedis) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockRedis) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockRedis) ReplaceHash(ctx context.Context, key string, fields map[string]string) error {
	if m.replaceHashFn != nil {
		return m.replaceHashFn(ctx, key, fields)
	}
	return nil
}

func (m *mockRedis) Del(ctx context.Context, key string) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return true, nil
}

func (m *mockRedis) Incr(ctx context.Context, key string) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key)
	}
	return 1, nil
}

func (m *mockRedis) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockRedis) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockRedis) IndexInfo(ctx context.Context, name string) (db.IndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return db.IndexInfo{Name: name}, nil
}

func (m *mockRedis) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
