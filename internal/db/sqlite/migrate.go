package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/memedex/internal/db"
)

// Migration is one forward-only schema step.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at INTEGER NOT NULL
)`

// Migrate applies every migration whose version is not yet recorded in
// schema_migrations, in ascending version order, each in its own transaction.
// It returns the versions applied by this call.
func (s *Store) Migrate(ctx context.Context, migrations []Migration) ([]int, error) {
	if _, err := s.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Version == sorted[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", sorted[i].Version)
		}
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var done []int
	for _, m := range sorted {
		if applied[m.Version] {
			continue
		}
		err := s.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Name, time.Now().UTC().UnixMicro())
			return err
		})
		if err != nil {
			return done, &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("%d_%s: %w", m.Version, m.Name, err)}
		}
		done = append(done, m.Version)
	}
	return done, nil
}

func (s *Store) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}
	defer rows.Close()

	out := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, &db.Error{Op: db.OpMigrate, Err: err}
		}
		out[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}
	return out, nil
}
