// Package bleve adapts an in-memory Bleve index to the meme search backend
// contract. Bleve has no proximity operator, so NEAR arrives relaxed and the
// ranker post-filters the candidates.
package bleve

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
)

const (
	analyzerName  = "memedex_words"
	tokenizerName = "memedex_alnum"
	// wordPattern must agree with query.Words.
	wordPattern = `[\p{L}\p{N}]+`
)

// Index is a memory-only Bleve index. Safe for concurrent use.
type Index struct {
	index bleve.Index
}

// New creates an empty memory-only index.
func New() (*Index, error) {
	m, err := BuildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build mapping: %w", err)
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// BuildIndexMapping maps every searchable field to a positional text field
// analyzed into lowercase alphanumeric words.
func BuildIndexMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()

	if err := m.AddCustomTokenizer(tokenizerName, map[string]interface{}{
		"type":   regexp.Name,
		"regexp": wordPattern,
	}); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}
	if err := m.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     tokenizerName,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	doc := bleve.NewDocumentMapping()
	for _, name := range field.All() {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzerName
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = true
		doc.AddFieldMappingsAt(string(name), fm)
	}
	m.DefaultMapping = doc
	m.DefaultAnalyzer = analyzerName

	return m, nil
}

// Dialect reports that proximity must be relaxed for this index.
func (ix *Index) Dialect() compile.Dialect { return compile.TreeRelaxed }

// Put indexes v under id, replacing any previous entry.
func (ix *Index) Put(ctx context.Context, id int64, v field.Values) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := make(map[string]interface{}, len(v))
	for name, text := range v {
		doc[string(name)] = text
	}
	if err := ix.index.Index(docID(id), doc); err != nil {
		return fmt.Errorf("index %d: %w", id, err)
	}
	return nil
}

// Remove drops the entry for id. Removing a missing id is a no-op.
func (ix *Index) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ix.index.Delete(docID(id)); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

// Len returns the number of indexed records.
func (ix *Index) Len() (int, error) {
	n, err := ix.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("doc count: %w", err)
	}
	return int(n), nil
}

// Query runs q.Root and returns at most limit candidates ordered by score
// desc, then id desc.
func (ix *Index) Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error) {
	if q.Dialect != compile.TreeRelaxed && q.Dialect != compile.Tree {
		return nil, fmt.Errorf("bleve index cannot run %q queries", q.Dialect)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	req := bleve.NewSearchRequestOptions(translate(q.Root), limit, 0, false)
	req.SortBy([]string{"-_score", "-_id"})

	res, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]hit.Candidate, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected document id %q: %w", h.ID, err)
		}
		out = append(out, hit.Candidate{ID: id, Score: h.Score})
	}
	return out, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

// docID zero-pads ids so lexical _id order equals numeric order.
func docID(id int64) string {
	return fmt.Sprintf("%020d", id)
}
