package inverted

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
	"github.com/kailas-cloud/memedex/internal/domain/search/match"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// set evaluates a subtree within scope (nil is every field) to scored ids.
type set func(scope []field.Name) map[int64]float64

// eval runs n against the postings. Callers hold the read lock.
func (ix *Index) eval(n query.Node) map[int64]float64 {
	return query.Fold[set](n, evaluator{ix})(nil)
}

type evaluator struct{ ix *Index }

var _ query.Visitor[set] = evaluator{}

func (e evaluator) Empty() set {
	return func([]field.Name) map[int64]float64 {
		out := make(map[int64]float64, len(e.ix.docs))
		for id := range e.ix.docs {
			out[id] = 0
		}
		return out
	}
}

func (e evaluator) Term(n query.Term) set {
	return e.sequence(query.Words(n.Value))
}

func (e evaluator) Phrase(n query.Phrase) set {
	return e.sequence(query.Words(n.Text))
}

func (e evaluator) Prefix(n query.Prefix) set {
	return func(scope []field.Name) map[int64]float64 {
		var words []string
		for w := range e.ix.postings {
			if strings.HasPrefix(w, n.Stem) {
				words = append(words, w)
			}
		}
		// fixed summation order keeps scores reproducible
		slices.Sort(words)

		out := make(map[int64]float64)
		for _, w := range words {
			for id, p := range e.ix.postings[w] {
				if s := e.ix.weight(w, p, scope); s > 0 {
					out[id] += s
				}
			}
		}
		return out
	}
}

func (e evaluator) Near(n query.Near) set {
	return func(scope []field.Name) map[int64]float64 {
		out := make(map[int64]float64)
		for id := range e.ix.candidates(n.Terms) {
			if !e.ix.near(id, n, scope) {
				continue
			}
			var s float64
			for _, t := range n.Terms {
				s += e.ix.weight(t, e.ix.postings[t][id], scope)
			}
			out[id] = s
		}
		return out
	}
}

func (e evaluator) Field(n query.Field, inner set) set {
	scope := []field.Name{n.Name}
	return func([]field.Name) map[int64]float64 { return inner(scope) }
}

func (evaluator) And(l, r set) set {
	return func(scope []field.Name) map[int64]float64 {
		left := l(scope)
		if len(left) == 0 {
			return nil
		}
		right := r(scope)
		out := make(map[int64]float64)
		for id, ls := range left {
			if rs, ok := right[id]; ok {
				out[id] = ls + rs
			}
		}
		return out
	}
}

func (evaluator) Or(l, r set) set {
	return func(scope []field.Name) map[int64]float64 {
		left, right := l(scope), r(scope)
		out := make(map[int64]float64, len(left)+len(right))
		for id, s := range left {
			out[id] = s
		}
		for id, s := range right {
			out[id] += s
		}
		return out
	}
}

func (evaluator) Not(l, r set) set {
	return func(scope []field.Name) map[int64]float64 {
		left := l(scope)
		if len(left) == 0 {
			return nil
		}
		right := r(scope)
		for id := range right {
			delete(left, id)
		}
		return left
	}
}

// sequence matches words contiguously inside one scoped field.
func (e evaluator) sequence(words []string) set {
	return func(scope []field.Name) map[int64]float64 {
		out := make(map[int64]float64)
		for id := range e.ix.candidates(words) {
			if !e.ix.contiguous(id, words, scope) {
				continue
			}
			var s float64
			for _, w := range words {
				s += e.ix.weight(w, e.ix.postings[w][id], scope)
			}
			out[id] = s
		}
		return out
	}
}

// candidates returns the ids containing every word in any field.
func (ix *Index) candidates(words []string) map[int64]struct{} {
	if len(words) == 0 {
		return nil
	}
	first := ix.postings[words[0]]
	out := make(map[int64]struct{}, len(first))
next:
	for id := range first {
		for _, w := range words[1:] {
			if _, ok := ix.postings[w][id]; !ok {
				continue next
			}
		}
		out[id] = struct{}{}
	}
	return out
}

func (ix *Index) contiguous(id int64, words []string, scope []field.Name) bool {
	doc := ix.docs[id]
	for _, name := range scopeOf(scope) {
		for _, start := range ix.postings[words[0]][id][name] {
			if start+len(words) > len(doc[name]) {
				continue
			}
			ok := true
			for i, w := range words[1:] {
				if doc[name][start+i+1] != w {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}
	return false
}

func (ix *Index) near(id int64, n query.Near, scope []field.Name) bool {
	for _, name := range scopeOf(scope) {
		lists := make([][]int, len(n.Terms))
		for i, t := range n.Terms {
			lists[i] = ix.postings[t][id][name]
		}
		if match.Within(lists, n.Distance) {
			return true
		}
	}
	return false
}

func scopeOf(scope []field.Name) []field.Name {
	if scope == nil {
		return field.All()
	}
	return scope
}
