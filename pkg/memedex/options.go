package memedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	memerepo "github.com/kailas-cloud/memedex/internal/repository/meme"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	store memerepo.OpenConfig

	defaultLimit int
	maxLimit     int
	overfetch    int

	now func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSQLite stores records in the SQLite file at path (":memory:" for a
// private in-memory database) with an FTS5 index.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = memerepo.OpenConfig{Driver: memerepo.DriverSQLite, Path: path}
	})
}

// WithRedis stores records as hashes indexed by the Redis Query Engine.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = memerepo.OpenConfig{
			Driver:   memerepo.DriverRedis,
			Addrs:    []string{addr},
			Password: password,
		}
	})
}

// WithMemory keeps records in process with an exact inverted index.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.store = memerepo.OpenConfig{Driver: memerepo.DriverMemory, MemoryIndex: memerepo.IndexInverted}
	})
}

// WithBleve keeps records in process with a bleve index.
func WithBleve() Option {
	return optionFunc(func(c *clientConfig) {
		c.store = memerepo.OpenConfig{Driver: memerepo.DriverMemory, MemoryIndex: memerepo.IndexBleve}
	})
}

// WithLimits sets the default and maximum number of search results.
// Defaults: 200 and 1000.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithOverfetch sets how many extra candidates are requested when a backend
// cannot enforce NEAR distances itself. Default: 5.
func WithOverfetch(factor int) Option {
	return optionFunc(func(c *clientConfig) {
		c.overfetch = factor
	})
}

// WithClock overrides the clock stamping created_at on new records.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
