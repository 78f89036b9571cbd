// Package match evaluates a query AST directly against a record's text.
//
// It is the reference semantics for every backend and the post-filter applied
// when a backend cannot express a constraint (proximity) natively.
package match

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// Doc is a record split into index words per field.
type Doc map[field.Name][]string

// Analyze splits every field value into index words.
func Analyze(v field.Values) Doc {
	d := make(Doc, len(v))
	for name, text := range v {
		d[name] = query.Words(text)
	}
	return d
}

// Matches reports whether d satisfies n. Empty matches everything.
func Matches(n query.Node, d Doc) bool {
	return query.Fold[pred](n, matcher{})(d, nil)
}

// pred evaluates against the given fields; nil means every field.
type pred func(d Doc, scope []field.Name) bool

type matcher struct{}

var _ query.Visitor[pred] = matcher{}

func (matcher) Empty() pred {
	return func(Doc, []field.Name) bool { return true }
}

func (matcher) Term(n query.Term) pred {
	return sequence(query.Words(n.Value))
}

func (matcher) Phrase(n query.Phrase) pred {
	return sequence(query.Words(n.Text))
}

func (matcher) Prefix(n query.Prefix) pred {
	return func(d Doc, scope []field.Name) bool {
		return anyField(d, scope, func(words []string) bool {
			return slices.ContainsFunc(words, func(w string) bool {
				return strings.HasPrefix(w, n.Stem)
			})
		})
	}
}

func (matcher) Near(n query.Near) pred {
	return func(d Doc, scope []field.Name) bool {
		return anyField(d, scope, func(words []string) bool {
			positions := make([][]int, len(n.Terms))
			for i, w := range words {
				if j := slices.Index(n.Terms, w); j >= 0 {
					positions[j] = append(positions[j], i)
				}
			}
			return Within(positions, n.Distance)
		})
	}
}

func (matcher) Field(n query.Field, inner pred) pred {
	scope := []field.Name{n.Name}
	return func(d Doc, _ []field.Name) bool { return inner(d, scope) }
}

func (matcher) And(l, r pred) pred {
	return func(d Doc, s []field.Name) bool { return l(d, s) && r(d, s) }
}

func (matcher) Or(l, r pred) pred {
	return func(d Doc, s []field.Name) bool { return l(d, s) || r(d, s) }
}

func (matcher) Not(l, r pred) pred {
	return func(d Doc, s []field.Name) bool { return l(d, s) && !r(d, s) }
}

// sequence matches the words contiguously inside one field.
func sequence(seq []string) pred {
	return func(d Doc, scope []field.Name) bool {
		return anyField(d, scope, func(words []string) bool {
			return containsSeq(words, seq)
		})
	}
}

func anyField(d Doc, scope []field.Name, fn func(words []string) bool) bool {
	if scope == nil {
		scope = field.All()
	}
	for _, name := range scope {
		if fn(d[name]) {
			return true
		}
	}
	return false
}

func containsSeq(words, seq []string) bool {
	if len(seq) == 0 {
		return false
	}
	for i := 0; i+len(seq) <= len(words); i++ {
		if slices.Equal(words[i:i+len(seq)], seq) {
			return true
		}
	}
	return false
}

// Within reports whether one position can be chosen from every list so that
// at most distance other words lie between the first and the last chosen.
// Positions across lists must be distinct.
func Within(positions [][]int, distance int) bool {
	k := len(positions)
	if k == 0 {
		return false
	}
	type occ struct{ pos, list int }
	var all []occ
	for list, ps := range positions {
		if len(ps) == 0 {
			return false
		}
		for _, p := range ps {
			all = append(all, occ{p, list})
		}
	}
	slices.SortFunc(all, func(a, b occ) int { return a.pos - b.pos })

	// Minimal windows covering every list, found with two pointers.
	counts := make([]int, k)
	covered, left := 0, 0
	for _, o := range all {
		if counts[o.list] == 0 {
			covered++
		}
		counts[o.list]++
		for covered == k {
			first := all[left]
			if o.pos-first.pos+1-k <= distance {
				return true
			}
			counts[first.list]--
			if counts[first.list] == 0 {
				covered--
			}
			left++
		}
	}
	return false
}
