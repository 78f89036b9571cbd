package hit

import (
	"cmp"
	"slices"
	"time"
)

// Candidate is a raw backend match: record id and backend relevance score.
type Candidate struct {
	ID    int64
	Score float64
}

// Hit is a candidate joined with its record's creation time.
type Hit struct {
	ID        int64
	Score     float64
	CreatedAt time.Time
}

// Compare orders hits by score desc, then creation time desc, then id desc.
// It is a total order: distinct ids never compare equal.
func Compare(a, b Hit) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// Sort orders hits in place by Compare.
func Sort(hits []Hit) {
	slices.SortFunc(hits, Compare)
}

// Dedupe keeps the best-scoring candidate per id, preserving first-seen order.
func Dedupe(cs []Candidate) []Candidate {
	idx := make(map[int64]int, len(cs))
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		if i, ok := idx[c.ID]; ok {
			if c.Score > out[i].Score {
				out[i].Score = c.Score
			}
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}
