package result

import "github.com/kailas-cloud/memedex/internal/domain/meme"

// Result is a single search hit: a hydrated record and its relevance.
type Result struct {
	meme   meme.Meme
	score  float64
	scored bool
}

// New creates a scored search result.
func New(m meme.Meme, score float64) Result {
	return Result{meme: m, score: score, scored: true}
}

// Unscored creates a result for a recency listing, which carries no relevance.
func Unscored(m meme.Meme) Result {
	return Result{meme: m}
}

// Meme returns the hydrated record.
func (r *Result) Meme() meme.Meme { return r.meme }

// Score returns the relevance score, or 0 when unscored.
func (r *Result) Score() float64 { return r.score }

// Scored reports whether the result came from a relevance query.
func (r *Result) Scored() bool { return r.scored }
