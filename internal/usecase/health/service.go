package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the store and its index both answer.
	Healthy Status = "ok"
	// Degraded indicates the store answers but the index is out of sync or unreachable.
	Degraded Status = "degraded"
	// Unhealthy indicates the primary store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentDatabase = "database"
	ComponentIndex    = "index"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service probes the primary store and its full-text index concurrently.
type Service struct {
	db      DBPinger
	index   IndexChecker
	timeout time.Duration
}

// New creates a health service. index may be nil when the backend has no
// separate consistency check.
func New(db DBPinger, index IndexChecker) *Service {
	return &Service{db: db, index: index, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-component timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all component checks. A failing database makes the report
// Unhealthy; a failing index alone makes it Degraded.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, 2)
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
			return
		}
		checks[name] = CheckOK
	}

	// errgroup only joins here; check errors are recorded, never propagated.
	var g errgroup.Group
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		record(ComponentDatabase, s.db.Ping(cctx))
		return nil
	})
	if s.index != nil {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			record(ComponentIndex, s.index.CheckIndex(cctx))
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentIndex] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
