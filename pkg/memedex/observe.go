package memedex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/memedex/internal/domain"
)

// Operation statuses reported in metrics and logs.
const (
	statusOK           = "ok"
	statusNotFound     = "not_found"
	statusInvalid      = "invalid"
	statusSyntaxError  = "syntax_error"
	statusBackendError = "backend_error"
	statusIndexError   = "index_error"
	statusError        = "error"
)

type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    prometheus.Histogram
}

func newClientMetrics(reg prometheus.Registerer, dialect string) (*clientMetrics, error) {
	constLabels := prometheus.Labels{"dialect": dialect}
	m := &clientMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "memedex",
			Subsystem:   "client",
			Name:        "operations_total",
			Help:        "Embedded client operations by type and status.",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "memedex",
			Subsystem:   "client",
			Name:        "operation_duration_seconds",
			Help:        "Embedded client operation duration in seconds.",
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "memedex",
			Subsystem:   "client",
			Name:        "search_results",
			Help:        "Results returned per embedded search.",
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 200, 500, 1000},
			ConstLabels: constLabels,
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at an identical collector that
// another client already registered.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("memedex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("memedex: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and measures client operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, dialect string) (*observer, error) {
	o := &observer{}
	if logger != nil {
		o.logger = logger.With("dialect", dialect)
	}
	if reg != nil {
		m, err := newClientMetrics(reg, dialect)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}
	switch status {
	case statusOK:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	case statusNotFound, statusInvalid, statusSyntaxError:
		o.logger.Info("operation rejected", "op", op, "status", status, "duration", dur, "error", err)
	default:
		o.logger.Warn("operation failed", "op", op, "status", status, "duration", dur, "error", err)
	}
}

func (o *observer) observeResults(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.results.Observe(float64(n))
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, domain.ErrNotFound):
		return statusNotFound
	case errors.Is(err, domain.ErrQuerySyntax):
		return statusSyntaxError
	case errors.Is(err, domain.ErrInvalidRecord), errors.Is(err, domain.ErrInvalidLimit):
		return statusInvalid
	case errors.Is(err, domain.ErrBackendExecution):
		return statusBackendError
	case errors.Is(err, domain.ErrIndexConsistency):
		return statusIndexError
	default:
		return statusError
	}
}
