package health

import "context"

// DBPinger is the primary record store.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker verifies that every stored record has its full-text entry.
type IndexChecker interface {
	CheckIndex(ctx context.Context) error
}
