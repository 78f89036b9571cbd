package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memedex/internal/domain"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
	"github.com/kailas-cloud/memedex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/memedex/internal/logger"
	"github.com/kailas-cloud/memedex/internal/metrics"
)

// Searcher is the search entry point consumed by transports.
type Searcher interface {
	Search(ctx context.Context, raw string, limit int) ([]result.Result, error)
	Explain(raw string) (Explanation, error)
	EffectiveLimit(limit int) int
}

// InstrumentedSearcher wraps a Searcher with metrics and logging.
// Syntax errors are logged at debug level; backend failures at error level.
type InstrumentedSearcher struct {
	inner   Searcher
	dialect compile.Dialect
	logger  *zap.Logger
}

// NewInstrumentedSearcher wraps a searcher with observability.
func NewInstrumentedSearcher(inner Searcher, dialect compile.Dialect, logger *zap.Logger) *InstrumentedSearcher {
	return &InstrumentedSearcher{inner: inner, dialect: dialect, logger: logger}
}

// Search delegates to the inner searcher and records the outcome.
func (p *InstrumentedSearcher) Search(ctx context.Context, raw string, limit int) ([]result.Result, error) {
	dialect := string(p.dialect)
	logger := logpkg.From(ctx, p.logger).With(zap.String("dialect", dialect))
	ctx = logpkg.Into(ctx, logger)
	start := time.Now()

	results, err := p.inner.Search(ctx, raw, limit)

	duration := time.Since(start)
	metrics.SearchDuration.WithLabelValues(dialect).Observe(duration.Seconds())

	outcome := outcomeOf(raw, err)
	metrics.SearchRequestsTotal.WithLabelValues(dialect, outcome).Inc()

	switch outcome {
	case metrics.OutcomeSyntaxError:
		logger.Debug("Rejected search query",
			zap.String("query", raw),
			zap.Error(err),
		)
		return nil, err
	case metrics.OutcomeBackendError, metrics.OutcomeError:
		logger.Error("Search failed",
			zap.String("query", raw),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.SearchResults.WithLabelValues(dialect).Observe(float64(len(results)))
	logger.Debug("Search completed",
		zap.String("outcome", outcome),
		zap.Int("limit", limit),
		zap.Int("results", len(results)),
		zap.Duration("duration", duration),
	)
	return results, nil
}

// Explain delegates to the inner searcher.
func (p *InstrumentedSearcher) Explain(raw string) (Explanation, error) {
	return p.inner.Explain(raw) //nolint:wrapcheck // decorator passes errors through unchanged
}

// EffectiveLimit delegates to the inner searcher.
func (p *InstrumentedSearcher) EffectiveLimit(limit int) int {
	return p.inner.EffectiveLimit(limit)
}

func outcomeOf(raw string, err error) string {
	switch {
	case err == nil && query.IsBlank(raw):
		return metrics.OutcomeEmpty
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrQuerySyntax):
		return metrics.OutcomeSyntaxError
	case errors.Is(err, domain.ErrBackendExecution):
		return metrics.OutcomeBackendError
	default:
		return metrics.OutcomeError
	}
}
