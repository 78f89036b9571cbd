package compile

import "github.com/kailas-cloud/memedex/internal/domain/search/query"

// relax rewrites NEAR for an index without positional queries.
//
// The result must match a superset of n so an exact post-filter can restore
// the precise answer. Under positive polarity NEAR becomes the AND of its
// terms (a superset). Under negative polarity (the right side of an odd number
// of NOTs) a superset of the outer query needs a subset of the inner one, so
// NEAR becomes the empty set, represented by nil and simplified away.
func relax(n query.Node) (query.Node, bool) {
	if !hasNear(n) {
		return n, false
	}
	root := query.Fold[polar](n, relaxer{})(true)
	if root == nil {
		// A positive root never reduces to the empty set; keep the exact tree.
		return n, true
	}
	return root, true
}

// polar builds the relaxed subtree for a polarity; nil is the empty set.
type polar func(positive bool) query.Node

type relaxer struct{}

var _ query.Visitor[polar] = relaxer{}

func constant(n query.Node) polar { return func(bool) query.Node { return n } }

func (relaxer) Empty() polar { return constant(query.Empty{}) }
func (relaxer) Term(n query.Term) polar { return constant(n) }
func (relaxer) Phrase(n query.Phrase) polar { return constant(n) }
func (relaxer) Prefix(n query.Prefix) polar { return constant(n) }

func (relaxer) Near(n query.Near) polar {
	return func(positive bool) query.Node {
		if !positive {
			return nil
		}
		var out query.Node = query.Term{Value: n.Terms[0]}
		for _, t := range n.Terms[1:] {
			out = query.And{Left: out, Right: query.Term{Value: t}}
		}
		return out
	}
}

func (relaxer) Field(n query.Field, inner polar) polar {
	return func(positive bool) query.Node {
		expr := inner(positive)
		if expr == nil {
			return nil
		}
		return query.Field{Name: n.Name, Expr: expr}
	}
}

func (relaxer) And(l, r polar) polar {
	return func(positive bool) query.Node {
		left, right := l(positive), r(positive)
		if left == nil || right == nil {
			return nil
		}
		return query.And{Left: left, Right: right}
	}
}

func (relaxer) Or(l, r polar) polar {
	return func(positive bool) query.Node {
		left, right := l(positive), r(positive)
		switch {
		case left == nil:
			return right
		case right == nil:
			return left
		}
		return query.Or{Left: left, Right: right}
	}
}

func (relaxer) Not(l, r polar) polar {
	return func(positive bool) query.Node {
		left, right := l(positive), r(!positive)
		switch {
		case left == nil:
			return nil
		case right == nil:
			return left
		}
		return query.Not{Left: left, Right: right}
	}
}

func hasNear(n query.Node) bool {
	return query.Fold[bool](n, nearFinder{})
}

type nearFinder struct{}

var _ query.Visitor[bool] = nearFinder{}

func (nearFinder) Empty() bool { return false }
func (nearFinder) Term(query.Term) bool { return false }
func (nearFinder) Phrase(query.Phrase) bool { return false }
func (nearFinder) Prefix(query.Prefix) bool { return false }
func (nearFinder) Near(query.Near) bool { return true }
func (nearFinder) Field(_ query.Field, b bool) bool { return b }
func (nearFinder) And(l, r bool) bool { return l || r }
func (nearFinder) Or(l, r bool) bool { return l || r }
func (nearFinder) Not(l, r bool) bool { return l || r }
