package search

import (
	"context"

	"github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

// Store is the primary record store, used for hydration and recency listing.
type Store interface {
	GetByIDs(ctx context.Context, ids []int64) ([]meme.Meme, error)
	GetRecent(ctx context.Context, limit int) ([]meme.Meme, error)
}

// Backend executes compiled queries against a full-text index.
// Query returns at most limit candidates ordered by score desc; ties are in
// no particular order. Fewer than limit candidates means there are no more.
type Backend interface {
	Dialect() compile.Dialect
	Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error)
}
