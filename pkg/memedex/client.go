package memedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/result"
	memerepo "github.com/kailas-cloud/memedex/internal/repository/meme"
	healthuc "github.com/kailas-cloud/memedex/internal/usecase/health"
	memeuc "github.com/kailas-cloud/memedex/internal/usecase/meme"
	searchuc "github.com/kailas-cloud/memedex/internal/usecase/search"
)

// Внутренние интерфейсы для подмены в тестах.
type memeUseCase interface {
	Create(ctx context.Context, d dommeme.Draft) (dommeme.Meme, error)
	Get(ctx context.Context, id int64) (dommeme.Meme, error)
	Recent(ctx context.Context, limit int) ([]dommeme.Meme, error)
	Update(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error)
	Delete(ctx context.Context, id int64) error
}

type searchUseCase interface {
	Search(ctx context.Context, raw string, limit int) ([]result.Result, error)
	Explain(raw string) (searchuc.Explanation, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the memedex entry point for embedding programs.
type Client struct {
	store     *memerepo.Opened
	memeSvc   memeUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// Open creates a Client and prepares its store. The provided context bounds
// connection, readiness and schema setup.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.store.Driver == "" {
		return nil, errors.New("memedex: store required (use WithSQLite, WithRedis, WithMemory or WithBleve)")
	}

	store, err := memerepo.Open(ctx, cfg.store)
	if err != nil {
		return nil, fmt.Errorf("memedex: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, string(store.Repo.Dialect()))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store *memerepo.Opened, cfg *clientConfig, obs *observer) *Client {
	repo := store.Repo

	searchSvc := searchuc.New(repo, repo, zap.NewNop()).
		WithLimits(cfg.defaultLimit, cfg.maxLimit).
		WithOverfetch(cfg.overfetch)
	memeSvc := memeuc.New(repo).WithClock(cfg.now)

	return &Client{
		store:     store,
		memeSvc:   memeSvc,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(repo, repo),
		obs:       obs,
	}
}

// Close releases the store.
func (c *Client) Close() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("memedex: close: %w", err)
	}
	return nil
}

// Search runs a query and returns at most limit results, best first.
// A limit <= 0 selects the default. A blank query returns the most recent
// records unscored. Malformed queries fail with a *SyntaxError.
func (c *Client) Search(ctx context.Context, q string, limit int) (out []Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	rs, err := c.searchSvc.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.observeResults(len(rs))
	return fromInternalResults(rs), nil
}

// Explain shows the normalized query and the native form sent to the backend.
func (c *Client) Explain(q string) (Explanation, error) {
	e, err := c.searchSvc.Explain(q)
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}
	return fromInternalExplanation(e), nil
}

// Create stores a new record and indexes it.
func (c *Client) Create(ctx context.Context, n NewMeme) (_ Meme, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create", start, err) }()

	m, err := c.memeSvc.Create(ctx, toDraft(n))
	if err != nil {
		return Meme{}, fmt.Errorf("create: %w", err)
	}
	return fromInternalMeme(m), nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, id int64) (_ Meme, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	m, err := c.memeSvc.Get(ctx, id)
	if err != nil {
		return Meme{}, fmt.Errorf("get: %w", err)
	}
	return fromInternalMeme(m), nil
}

// Recent returns up to limit records, newest first.
func (c *Client) Recent(ctx context.Context, limit int) (_ []Meme, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recent", start, err) }()

	memes, err := c.memeSvc.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent: %w", err)
	}
	out := make([]Meme, len(memes))
	for i, m := range memes {
		out[i] = fromInternalMeme(m)
	}
	return out, nil
}

// Update applies p and reindexes the record.
func (c *Client) Update(ctx context.Context, id int64, p MemePatch) (_ Meme, err error) {
	start := time.Now()
	defer func() { c.obs.observe("update", start, err) }()

	dp, err := patch.New(p.Text, p.Description, p.Category, p.Keywords)
	if err != nil {
		return Meme{}, fmt.Errorf("update: %w: %w", ErrInvalidRecord, err)
	}
	m, err := c.memeSvc.Update(ctx, id, dp)
	if err != nil {
		return Meme{}, fmt.Errorf("update: %w", err)
	}
	return fromInternalMeme(m), nil
}

// Delete removes a record from the store and the index.
func (c *Client) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	if err = c.memeSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Health checks the store and its full-text index.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
