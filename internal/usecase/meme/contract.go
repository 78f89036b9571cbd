package meme

import (
	"context"

	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
)

// Repository is the primary record store. Every mutation keeps the
// full-text index entry of the record in sync before it returns.
type Repository interface {
	Insert(ctx context.Context, m dommeme.Meme) (int64, error)
	UpdateFields(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error)
	Delete(ctx context.Context, id int64) error
	GetByIDs(ctx context.Context, ids []int64) ([]dommeme.Meme, error)
	GetRecent(ctx context.Context, limit int) ([]dommeme.Meme, error)
}
