package meme

import (
	"context"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/memedex/internal/db/redis"
	"github.com/kailas-cloud/memedex/internal/db/sqlite"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
	blevex "github.com/kailas-cloud/memedex/internal/index/bleve"
	"github.com/kailas-cloud/memedex/internal/index/inverted"
)

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// In-process indexes for DriverMemory.
const (
	IndexInverted = "inverted"
	IndexBleve    = "bleve"
)

const defaultReadinessTimeout = 10 * time.Second

// Repository is a record store that keeps its own full-text index.
// SQLite, Redis and Memory all implement it.
type Repository interface {
	Insert(ctx context.Context, m dommeme.Meme) (int64, error)
	UpdateFields(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error)
	Delete(ctx context.Context, id int64) error
	GetByIDs(ctx context.Context, ids []int64) ([]dommeme.Meme, error)
	GetRecent(ctx context.Context, limit int) ([]dommeme.Meme, error)
	Dialect() compile.Dialect
	Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error)
	Ping(ctx context.Context) error
	CheckIndex(ctx context.Context) error
}

// OpenConfig selects and configures a driver.
type OpenConfig struct {
	Driver string

	// sqlite
	Path        string
	BusyTimeout time.Duration

	// redis
	Addrs            []string
	Password         string
	ReadinessTimeout time.Duration

	// memory
	MemoryIndex string
}

// Opened is a ready repository plus the resources behind it.
type Opened struct {
	Repo  Repository
	close func() error
}

// Close releases the driver's connections or indexes.
func (o *Opened) Close() error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close()
}

// Open connects the configured driver and prepares its schema: SQLite
// migrations run, the Redis index is created if absent.
func Open(ctx context.Context, cfg OpenConfig) (*Opened, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return openSQLite(ctx, cfg)
	case DriverRedis:
		return openRedis(ctx, cfg)
	case DriverMemory:
		return openMemory(cfg)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func openSQLite(ctx context.Context, cfg OpenConfig) (*Opened, error) {
	store, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.Path, BusyTimeout: cfg.BusyTimeout})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := store.Migrate(ctx, Migrations); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Opened{Repo: NewSQLite(store), close: store.Close}, nil
}

func openRedis(ctx context.Context, cfg OpenConfig) (*Opened, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	timeout := cfg.ReadinessTimeout
	if timeout <= 0 {
		timeout = defaultReadinessTimeout
	}
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}

	repo := NewRedis(store)
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &Opened{Repo: repo, close: func() error { store.Close(); return nil }}, nil
}

func openMemory(cfg OpenConfig) (*Opened, error) {
	switch cfg.MemoryIndex {
	case "", IndexInverted:
		return &Opened{Repo: NewMemory(inverted.New())}, nil
	case IndexBleve:
		idx, err := blevex.New()
		if err != nil {
			return nil, fmt.Errorf("create bleve index: %w", err)
		}
		return &Opened{Repo: NewMemory(idx), close: idx.Close}, nil
	default:
		return nil, fmt.Errorf("unknown memory index %q", cfg.MemoryIndex)
	}
}
