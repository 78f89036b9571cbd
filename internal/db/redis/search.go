package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/memedex/internal/db"
)

// Search runs FT.SEARCH NOCONTENT with DIALECT 2: hits carry keys and,
// when asked, scores. The query string is sent as is.
func (s *Store) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	args := []string{q.IndexName, q.Query, "NOCONTENT"}
	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if q.SortBy != "" {
		order := "ASC"
		if q.SortDesc {
			order = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, order)
	}
	args = append(args,
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, q.WithScores)
}

// parseSearchResult decodes [total, key, (score), key, (score), ...].
func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	stride := 1
	if withScores {
		stride++
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			return nil, fmt.Errorf("parse key: %w", err)
		}
		entry := db.SearchEntry{Key: key}

		if withScores {
			entry.Score, err = parseScore(raw[i+1])
			if err != nil {
				return nil, fmt.Errorf("parse score of %s: %w", key, err)
			}
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseScore(m rueidis.RedisMessage) (float64, error) {
	if f, err := m.AsFloat64(); err == nil {
		return f, nil
	}
	str, err := m.ToString()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(str, 64)
}
