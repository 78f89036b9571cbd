package memedex

import (
	"time"

	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/memedex/internal/usecase/search"
)

// Meme is a stored catalog record.
type Meme struct {
	ID          int64
	Path        string
	Filename    string
	Category    string
	Hash        string
	Text        string
	Description string
	Keywords    []string
	CreatedAt   time.Time
}

// NewMeme holds the attributes of a record to create. Path, Filename and
// Category are required.
type NewMeme struct {
	Path        string
	Filename    string
	Category    string
	Hash        string
	Text        string
	Description string
	Keywords    []string
}

// MemePatch is a partial update. Nil fields are unchanged; a non-nil empty
// Keywords slice clears the keywords.
type MemePatch struct {
	Text        *string
	Description *string
	Category    *string
	Keywords    *[]string
}

// Result is one search hit. Score is zero and Scored false when the query
// was blank and results are the most recent records.
type Result struct {
	Meme   Meme
	Score  float64
	Scored bool
}

// Explanation shows how a query would run on the configured backend.
type Explanation struct {
	Canonical  string
	Dialect    string
	Native     string
	MatchAll   bool
	PostFilter bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func fromInternalMeme(m dommeme.Meme) Meme {
	return Meme{
		ID:          m.ID(),
		Path:        m.Path(),
		Filename:    m.Filename(),
		Category:    m.Category(),
		Hash:        m.Hash(),
		Text:        m.Text(),
		Description: m.Description(),
		Keywords:    append([]string(nil), m.Keywords()...),
		CreatedAt:   m.CreatedAt(),
	}
}

func toDraft(n NewMeme) dommeme.Draft {
	return dommeme.Draft{
		Path:        n.Path,
		Filename:    n.Filename,
		Category:    n.Category,
		Hash:        n.Hash,
		Text:        n.Text,
		Description: n.Description,
		Keywords:    n.Keywords,
	}
}

func fromInternalResults(rs []result.Result) []Result {
	out := make([]Result, len(rs))
	for i := range rs {
		out[i] = Result{
			Meme:   fromInternalMeme(rs[i].Meme()),
			Score:  rs[i].Score(),
			Scored: rs[i].Scored(),
		}
	}
	return out
}

func fromInternalExplanation(e searchuc.Explanation) Explanation {
	return Explanation{
		Canonical:  e.Canonical,
		Dialect:    string(e.Dialect),
		Native:     e.Native,
		MatchAll:   e.MatchAll,
		PostFilter: e.PostFilter,
	}
}
