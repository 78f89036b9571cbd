// Package inverted is an in-memory positional inverted index over the
// searchable fields of meme records. It executes query trees natively,
// including phrases and proximity.
package inverted

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/hit"
	"github.com/kailas-cloud/memedex/internal/domain/search/match"
)

// positions maps a field to the word offsets of one term in one record.
type positions map[field.Name][]int

// Index is safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	docs     map[int64]match.Doc
	postings map[string]map[int64]positions
}

// New returns an empty index.
func New() *Index {
	return &Index{
		docs:     make(map[int64]match.Doc),
		postings: make(map[string]map[int64]positions),
	}
}

// Dialect reports that the index runs query trees with native proximity.
func (ix *Index) Dialect() compile.Dialect { return compile.Tree }

// Put indexes v under id, replacing any previous entry.
func (ix *Index) Put(ctx context.Context, id int64, v field.Values) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := match.Analyze(v)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.remove(id)
	ix.docs[id] = doc
	for name, words := range doc {
		for pos, w := range words {
			byDoc := ix.postings[w]
			if byDoc == nil {
				byDoc = make(map[int64]positions)
				ix.postings[w] = byDoc
			}
			p := byDoc[id]
			if p == nil {
				p = make(positions)
				byDoc[id] = p
			}
			p[name] = append(p[name], pos)
		}
	}
	return nil
}

// Remove drops the entry for id. Removing a missing id is a no-op.
func (ix *Index) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.remove(id)
	return nil
}

func (ix *Index) remove(id int64) {
	doc, ok := ix.docs[id]
	if !ok {
		return
	}
	delete(ix.docs, id)
	for _, words := range doc {
		for _, w := range words {
			byDoc := ix.postings[w]
			delete(byDoc, id)
			if len(byDoc) == 0 {
				delete(ix.postings, w)
			}
		}
	}
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Query evaluates q.Root and returns at most limit candidates ordered by
// score desc, then id desc.
func (ix *Index) Query(ctx context.Context, q compile.Query, limit int) ([]hit.Candidate, error) {
	if q.Dialect != compile.Tree && q.Dialect != compile.TreeRelaxed {
		return nil, fmt.Errorf("inverted index cannot run %q queries", q.Dialect)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	var scored map[int64]float64
	switch {
	case q.MatchAll:
		scored = make(map[int64]float64, len(ix.docs))
		for id := range ix.docs {
			scored[id] = 0
		}
	case len(q.Probe) > 0:
		scored = ix.probe(q.Probe)
	default:
		scored = ix.eval(q.Root)
	}
	ix.mu.RUnlock()

	return rank(scored, limit), nil
}

// probe intersects the postings of single-word terms, smallest list first.
func (ix *Index) probe(words []string) map[int64]float64 {
	lists := make([]map[int64]positions, len(words))
	for i, w := range words {
		lists[i] = ix.postings[w]
		if len(lists[i]) == 0 {
			return nil
		}
	}
	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(len(lists[a]), len(lists[b])) })

	out := make(map[int64]float64, len(lists[order[0]]))
next:
	for id := range lists[order[0]] {
		for _, i := range order[1:] {
			if _, ok := lists[i][id]; !ok {
				continue next
			}
		}
		var score float64
		for i, w := range words {
			score += ix.weight(w, lists[i][id], nil)
		}
		out[id] = score
	}
	return out
}

// weight is the tf-idf contribution of word w with occurrences p inside scope.
func (ix *Index) weight(w string, p positions, scope []field.Name) float64 {
	tf := 0
	for name, ps := range p {
		if inScope(name, scope) {
			tf += len(ps)
		}
	}
	if tf == 0 {
		return 0
	}
	return (1 + math.Log(float64(tf))) * ix.idf(w)
}

func (ix *Index) idf(w string) float64 {
	df := len(ix.postings[w])
	if df == 0 {
		return 0
	}
	return math.Log(1 + float64(len(ix.docs))/float64(df))
}

func inScope(name field.Name, scope []field.Name) bool {
	return scope == nil || slices.Contains(scope, name)
}

func rank(scored map[int64]float64, limit int) []hit.Candidate {
	out := make([]hit.Candidate, 0, len(scored))
	for id, s := range scored {
		out = append(out, hit.Candidate{ID: id, Score: s})
	}
	slices.SortFunc(out, func(a, b hit.Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
