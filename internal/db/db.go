package db

import (
	"context"
	"time"
)

// Store is everything the Redis record repository needs from the server:
// record hashes, the id sequence and the FT index over them.
//
//nolint:interfacebloat // facade; the repository consumes a narrower interface
type Store interface {
	Pinger
	RecordHashes
	Sequencer
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordHashes stores one record per hash key.
type RecordHashes interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	// ReplaceHash atomically drops key and writes fields in its place, so the
	// FT index reindexes the record exactly once.
	ReplaceHash(ctx context.Context, key string, fields map[string]string) error
	// Del deletes key and reports whether it existed.
	Del(ctx context.Context, key string) (bool, error)
}

// Sequencer hands out record ids.
type Sequencer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// IndexManager creates and inspects FT indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// IndexInfo returns ErrIndexNotFound when the index is absent.
	IndexInfo(ctx context.Context, name string) (IndexInfo, error)
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
