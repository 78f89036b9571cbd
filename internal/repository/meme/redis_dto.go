package meme

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// Hash field names. Raw values are kept for hydration. The w_ fields hold
// the same values as space-joined query words, so the engine's tokenizer
// sees exactly the words the query language matches on (it would otherwise
// keep "_" and "'" inside tokens).
const (
	hashID           = "id"
	hashPath         = "path"
	hashFilename     = "filename"
	hashCategory     = "category"
	hashHash         = "hash"
	hashText         = "text"
	hashDescription  = "description"
	hashKeywordsJSON = "keywords_json"
	hashCreatedAt    = "created_at"

	hashWordsText        = "w_text"
	hashWordsDescription = "w_description"
	hashWordsKeywords    = "w_keywords"
	hashWordsFilename    = "w_filename"
)

// buildHashFields converts a record into a flat map for HSET.
func buildHashFields(m *dommeme.Meme) (map[string]string, error) {
	kw, err := json.Marshal(m.Keywords())
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}
	v := m.SearchValues()
	return map[string]string{
		hashID:           strconv.FormatInt(m.ID(), 10),
		hashPath:         m.Path(),
		hashFilename:     v[field.Filename],
		hashCategory:     m.Category(),
		hashHash:         m.Hash(),
		hashText:         v[field.Text],
		hashDescription:  v[field.Description],
		hashKeywordsJSON: string(kw),
		hashCreatedAt:    strconv.FormatInt(m.CreatedAt().UnixMicro(), 10),

		hashWordsText:        indexWords(v[field.Text]),
		hashWordsDescription: indexWords(v[field.Description]),
		hashWordsKeywords:    indexWords(v[field.Keywords]),
		hashWordsFilename:    indexWords(v[field.Filename]),
	}, nil
}

func indexWords(s string) string {
	return strings.Join(query.Words(s), " ")
}

// parseHashFields converts a hash back into a record.
func parseHashFields(h map[string]string) (dommeme.Meme, error) {
	id, err := strconv.ParseInt(h[hashID], 10, 64)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("parse id %q: %w", h[hashID], err)
	}
	created, err := strconv.ParseInt(h[hashCreatedAt], 10, 64)
	if err != nil {
		return dommeme.Meme{}, fmt.Errorf("meme %d: parse created_at: %w", id, err)
	}
	var keywords []string
	if raw := h[hashKeywordsJSON]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
			return dommeme.Meme{}, fmt.Errorf("meme %d: parse keywords: %w", id, err)
		}
	}
	return dommeme.Reconstruct(
		id, h[hashPath], h[hashFilename], h[hashCategory], h[hashHash],
		h[hashText], h[hashDescription], keywords, time.UnixMicro(created),
	), nil
}

func idFromKey(key, prefix string) (int64, error) {
	s, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return 0, fmt.Errorf("key %q outside prefix %q", key, prefix)
	}
	return strconv.ParseInt(s, 10, 64)
}
