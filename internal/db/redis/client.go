package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/memedex/internal/db"
)

var _ db.Store = (*Store)(nil)

// ErrNoQueryEngine means the server answers PING but has no FT.* commands.
var ErrNoQueryEngine = errors.New("redis query engine not available")

const (
	defaultClientName = "memedex"

	readyInitialDelay = 50 * time.Millisecond
	readyMaxDelay     = time.Second
)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	// ClientName is reported in CLIENT LIST. Defaults to "memedex".
	ClientName string
	// WriteTimeout bounds a single socket write; zero keeps the rueidis default.
	WriteTimeout time.Duration
}

// Store holds record hashes and the FT index that covers them.
// Needs the query engine: Redis 8+ or Redis Stack.
type Store struct {
	client rueidis.Client
}

// NewStore builds a rueidis client for cfg. It does not wait for the
// server; call WaitForReady before first use.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	name := cfg.ClientName
	if name == "" {
		name = defaultClientName
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      cfg.Addrs,
		Username:         cfg.Username,
		Password:         cfg.Password,
		SelectDB:         cfg.DB,
		ClientName:       name,
		ConnWriteTimeout: cfg.WriteTimeout,
		// Records change through MULTI/EXEC only; client-side caching would
		// serve stale hashes between a write and its invalidation push.
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH and FT.INFO replies are parsed as flat arrays
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady retries PING with exponential backoff until the server
// answers or timeout expires, then confirms the query engine is loaded.
// A server without FT.* commands fails fast with ErrNoQueryEngine.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyInitialDelay
	for {
		err := s.Ping(ctx)
		if err == nil {
			return s.probeQueryEngine(ctx)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("timeout waiting for redis: %w: %w", ctx.Err(), err)
		case <-timer.C:
		}
		delay = min(delay*2, readyMaxDelay)
	}
}

func (s *Store) probeQueryEngine(ctx context.Context) error {
	err := s.do(ctx, s.b().Arbitrary("FT._LIST").Build()).Error()
	if isRedisErr(err, "unknown command") {
		return ErrNoQueryEngine
	}
	if err != nil {
		return fmt.Errorf("probe query engine: %w", err)
	}
	return nil
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error whose message contains substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
