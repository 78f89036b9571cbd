package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memedex/internal/domain"
	"github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
	"github.com/kailas-cloud/memedex/internal/domain/search/match"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
	"github.com/kailas-cloud/memedex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/memedex/internal/logger"
)

// Defaults for result limits.
const (
	DefaultLimit     = 200
	DefaultMaxLimit  = 1000
	DefaultOverfetch = 5
)

// Explanation describes how a raw query would be executed.
type Explanation struct {
	// Canonical is the normalized query text.
	Canonical  string
	Dialect    compile.Dialect
	Native     string
	MatchAll   bool
	PostFilter bool
}

// Service parses, compiles and executes meme searches and ranks the results.
type Service struct {
	store     Store
	backend   Backend
	logger    *zap.Logger
	limit     int
	maxLimit  int
	overfetch int
}

// New creates a search service.
func New(store Store, backend Backend, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		backend:   backend,
		logger:    logger,
		limit:     DefaultLimit,
		maxLimit:  DefaultMaxLimit,
		overfetch: DefaultOverfetch,
	}
}

// WithLimits configures the default and maximum result counts.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	if defaultLimit > 0 {
		s.limit = min(defaultLimit, s.maxLimit)
	}
	return s
}

// WithOverfetch sets the candidate multiplier used when hits are post-filtered.
func (s *Service) WithOverfetch(factor int) *Service {
	if factor > 0 {
		s.overfetch = factor
	}
	return s
}

// Search runs raw against the backend and returns at most limit results
// ordered by score desc, creation time desc, id desc.
// A non-positive limit selects the default; larger ones are clamped.
// A blank query lists the most recent records without scores.
func (s *Service) Search(ctx context.Context, raw string, limit int) ([]result.Result, error) {
	limit = s.EffectiveLimit(limit)

	if query.IsBlank(raw) {
		return s.recent(ctx, limit)
	}

	ast, err := query.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	q, err := compile.Compile(ast, s.backend.Dialect())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	return s.run(ctx, q, limit)
}

// Explain parses and compiles raw without executing it.
func (s *Service) Explain(raw string) (Explanation, error) {
	ast, err := query.Parse(raw)
	if err != nil {
		return Explanation{}, fmt.Errorf("parse query: %w", err)
	}
	q, err := compile.Compile(ast, s.backend.Dialect())
	if err != nil {
		return Explanation{}, fmt.Errorf("compile query: %w", err)
	}
	return Explanation{
		Canonical:  query.Format(ast),
		Dialect:    q.Dialect,
		Native:     q.Native,
		MatchAll:   q.MatchAll,
		PostFilter: q.PostFilter,
	}, nil
}

// EffectiveLimit is the result count Search uses for a requested limit.
func (s *Service) EffectiveLimit(limit int) int {
	if limit <= 0 {
		return s.limit
	}
	return min(limit, s.maxLimit)
}

func (s *Service) recent(ctx context.Context, limit int) ([]result.Result, error) {
	memes, err := s.store.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent: %w", err)
	}
	byID := make(map[int64]meme.Meme, len(memes))
	hits := make([]hit.Hit, 0, len(memes))
	for _, m := range memes {
		byID[m.ID()] = m
		hits = append(hits, hit.Hit{ID: m.ID(), CreatedAt: m.CreatedAt()})
	}
	hit.Sort(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, result.Unscored(byID[h.ID]))
	}
	return out, nil
}

// run fetches candidates in growing windows until the top limit hits are
// settled: the window is exhausted, or limit hits survived and every unseen
// candidate scores strictly below the last of them. Post-filtered queries
// start with an overfetched window and keep widening while too few
// candidates pass the exact matcher.
func (s *Service) run(ctx context.Context, q compile.Query, limit int) ([]result.Result, error) {
	fetch := limit
	if q.PostFilter {
		fetch = limit * s.overfetch
	}

	loaded := make(map[int64]meme.Meme)
	requested := make(map[int64]bool)
	var missing []int64
	var hits []hit.Hit
	prev := -1
	for {
		raw, err := s.backend.Query(ctx, q, fetch)
		if err != nil {
			if errors.Is(err, domain.ErrBackendExecution) {
				return nil, fmt.Errorf("query backend: %w", err)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendExecution, err)
		}
		exhausted := len(raw) < fetch || len(raw) <= prev
		prev = len(raw)

		cands := hit.Dedupe(raw)
		var fresh []int64
		for _, c := range cands {
			if !requested[c.ID] {
				requested[c.ID] = true
				fresh = append(fresh, c.ID)
			}
		}
		if len(fresh) > 0 {
			memes, err := s.store.GetByIDs(ctx, fresh)
			if err != nil {
				return nil, fmt.Errorf("hydrate results: %w", err)
			}
			for _, m := range memes {
				loaded[m.ID()] = m
			}
			for _, id := range fresh {
				if _, ok := loaded[id]; !ok {
					missing = append(missing, id)
				}
			}
		}

		hits = hits[:0]
		for _, c := range cands {
			m, ok := loaded[c.ID]
			if !ok {
				continue
			}
			if q.PostFilter && !match.Matches(q.Source, match.Analyze(m.SearchValues())) {
				continue
			}
			hits = append(hits, hit.Hit{ID: c.ID, Score: c.Score, CreatedAt: m.CreatedAt()})
		}
		hit.Sort(hits)

		if exhausted || settled(hits, raw[len(raw)-1].Score, limit) {
			break
		}
		fetch *= 2
	}

	if len(missing) > 0 {
		logpkg.From(ctx, s.logger).Warn("Search hits missing from primary store",
			zap.Int64s("ids", missing),
			zap.String("dialect", string(q.Dialect)),
		)
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, result.New(loaded[h.ID], h.Score))
	}
	return out, nil
}

// settled reports whether sorted hits already hold the final top limit.
// floor is the lowest score in the window; unseen candidates score at most
// that, so they can only displace a hit they tie with or beat.
func settled(hits []hit.Hit, floor float64, limit int) bool {
	return len(hits) >= limit && floor < hits[limit-1].Score
}
