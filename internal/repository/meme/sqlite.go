package meme

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/memedex/internal/db"
	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

// sqlStore is the consumer interface for the SQLite driver (ISP).
type sqlStore interface {
	DB() *sql.DB
	Ping(ctx context.Context) error
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLite stores records in the memes table and keeps memes_fts in the same
// transaction as every mutation.
type SQLite struct {
	store sqlStore
}

// NewSQLite creates a repository. The schema must be migrated with Migrations.
func NewSQLite(s sqlStore) *SQLite {
	return &SQLite{store: s}
}

const memeColumns = `id, path, filename, category, hash, text, description, keywords, created_at`

// Insert stores m and its FTS5 row atomically.
func (r *SQLite) Insert(ctx context.Context, m dommeme.Meme) (int64, error) {
	keywords, err := json.Marshal(m.Keywords())
	if err != nil {
		return 0, fmt.Errorf("marshal keywords: %w", err)
	}

	var id int64
	err = r.store.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO memes (path, filename, category, hash, text, description, keywords, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Path(), m.Filename(), m.Category(), m.Hash(), m.Text(), m.Description(),
			string(keywords), m.CreatedAt().UnixMicro())
		if err != nil {
			return &db.Error{Op: db.OpExecSQL, Err: err}
		}
		if id, err = res.LastInsertId(); err != nil {
			return &db.Error{Op: db.OpExecSQL, Err: err}
		}
		stored := m.WithID(id)
		return indexRow(ctx, tx, id, stored.SearchValues())
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFields applies p and replaces the FTS5 row (delete, then insert).
func (r *SQLite) UpdateFields(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error) {
	var updated dommeme.Meme
	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+memeColumns+` FROM memes WHERE id = ?`, id)
		old, err := scanMeme(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		if updated, err = old.Apply(p); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
		}
		keywords, err := json.Marshal(updated.Keywords())
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE memes SET category = ?, text = ?, description = ?, keywords = ? WHERE id = ?`,
			updated.Category(), updated.Text(), updated.Description(), string(keywords), id,
		); err != nil {
			return &db.Error{Op: db.OpExecSQL, Err: err}
		}
		if err := unindexRow(ctx, tx, id); err != nil {
			return err
		}
		return indexRow(ctx, tx, id, updated.SearchValues())
	})
	if err != nil {
		return dommeme.Meme{}, err
	}
	return updated, nil
}

// Delete removes the record and its FTS5 row.
func (r *SQLite) Delete(ctx context.Context, id int64) error {
	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM memes WHERE id = ?`, id)
		if err != nil {
			return &db.Error{Op: db.OpExecSQL, Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &db.Error{Op: db.OpExecSQL, Err: err}
		}
		if n == 0 {
			return fmt.Errorf("meme %d: %w", id, domain.ErrNotFound)
		}
		return unindexRow(ctx, tx, id)
	})
}

func indexRow(ctx context.Context, tx *sql.Tx, id int64, v field.Values) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO memes_fts (rowid, text, description, keywords, filename) VALUES (?, ?, ?, ?, ?)`,
		id, v[field.Text], v[field.Description], v[field.Keywords], v[field.Filename])
	if err != nil {
		return fmt.Errorf("%w: index meme %d: %w", domain.ErrIndexConsistency, id, err)
	}
	return nil
}

func unindexRow(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM memes_fts WHERE rowid = ?`, id); err != nil {
		return fmt.Errorf("%w: unindex meme %d: %w", domain.ErrIndexConsistency, id, err)
	}
	return nil
}

// GetByIDs returns the known records among ids, in ids order.
func (r *SQLite) GetByIDs(ctx context.Context, ids []int64) ([]dommeme.Meme, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := r.store.DB().QueryContext(ctx,
		`SELECT `+memeColumns+` FROM memes WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	found, err := scanMemes(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]dommeme.Meme, len(found))
	for _, m := range found {
		byID[m.ID()] = m
	}
	out := make([]dommeme.Meme, 0, len(found))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetRecent returns up to limit records, newest first, ties by id desc.
func (r *SQLite) GetRecent(ctx context.Context, limit int) ([]dommeme.Meme, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLimit, limit)
	}
	rows, err := r.store.DB().QueryContext(ctx,
		`SELECT `+memeColumns+` FROM memes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return scanMemes(rows)
}

// Dialect reports FTS5 MATCH syntax.
func (r *SQLite) Dialect() compile.Dialect { return compile.FTS5 }

// Query runs a compiled MATCH expression ranked by bm25. Scores are negated
// bm25 values so that larger is better.
func (r *SQLite) Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error) {
	if q.Dialect != compile.FTS5 {
		return nil, fmt.Errorf("sqlite cannot run %q queries", q.Dialect)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLimit, limit)
	}

	var (
		rows *sql.Rows
		err  error
	)
	if q.MatchAll {
		rows, err = r.store.DB().QueryContext(ctx,
			`SELECT id, 0.0 FROM memes ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = r.store.DB().QueryContext(ctx,
			`SELECT rowid, bm25(memes_fts) FROM memes_fts WHERE memes_fts MATCH ?
			 ORDER BY bm25(memes_fts), rowid DESC LIMIT ?`, q.Native, limit)
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var out []hit.Candidate
	for rows.Next() {
		var (
			id   int64
			bm25 float64
		)
		if err := rows.Scan(&id, &bm25); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		out = append(out, hit.Candidate{ID: id, Score: -bm25})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// Ping checks the database.
func (r *SQLite) Ping(ctx context.Context) error { return r.store.Ping(ctx) }

// CheckIndex verifies that records and FTS5 rows correspond one to one.
func (r *SQLite) CheckIndex(ctx context.Context) error {
	var missing, stale int
	err := r.store.DB().QueryRowContext(ctx, `SELECT
	(SELECT COUNT(*) FROM memes m WHERE NOT EXISTS (SELECT 1 FROM memes_fts f WHERE f.rowid = m.id)),
	(SELECT COUNT(*) FROM memes_fts f WHERE NOT EXISTS (SELECT 1 FROM memes m WHERE m.id = f.rowid))`,
	).Scan(&missing, &stale)
	if err != nil {
		return &db.Error{Op: db.OpQuery, Err: err}
	}
	if missing > 0 || stale > 0 {
		return fmt.Errorf("%w: %d records without index rows, %d index rows without records",
			domain.ErrIndexConsistency, missing, stale)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeme(row rowScanner) (dommeme.Meme, error) {
	var (
		id                                               int64
		path, filename, category, hash, text, desc, kwJS string
		createdAt                                        int64
	)
	if err := row.Scan(&id, &path, &filename, &category, &hash, &text, &desc, &kwJS, &createdAt); err != nil {
		return dommeme.Meme{}, err
	}
	var keywords []string
	if err := json.Unmarshal([]byte(kwJS), &keywords); err != nil {
		return dommeme.Meme{}, fmt.Errorf("meme %d keywords: %w", id, err)
	}
	return dommeme.Reconstruct(id, path, filename, category, hash, text, desc, keywords,
		time.UnixMicro(createdAt)), nil
}

func scanMemes(rows *sql.Rows) ([]dommeme.Meme, error) {
	defer rows.Close()
	var out []dommeme.Meme
	for rows.Next() {
		m, err := scanMeme(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}
