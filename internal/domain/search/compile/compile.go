// Package compile translates a query AST into backend-native queries.
package compile

import (
	"fmt"

	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// Dialect names a backend query language.
type Dialect string

// Supported dialects.
const (
	// FTS5 is the SQLite FTS5 MATCH syntax.
	FTS5 Dialect = "fts5"
	// RediSearch is the Redis Query Engine syntax (DIALECT 2).
	RediSearch Dialect = "redisearch"
	// Tree is the AST itself, for in-process indexes with native proximity.
	Tree Dialect = "tree"
	// TreeRelaxed is the AST with proximity emulated, for indexes without it.
	TreeRelaxed Dialect = "tree-relaxed"
)

// Query is a compiled query.
type Query struct {
	Dialect Dialect
	// Native is the backend query string. For tree dialects it is the
	// canonical form of Root, kept for diagnostics.
	Native string
	// Source is the parsed AST.
	Source query.Node
	// Root is the tree a tree-dialect backend executes.
	Root query.Node
	// MatchAll is set for the empty query.
	MatchAll bool
	// Probe lists the words of a query that is a plain conjunction of
	// single-word terms, so an index may intersect postings directly.
	Probe []string
	// PostFilter is set when the backend query is a superset and every
	// hit must be re-checked against Source.
	PostFilter bool
}

// Compile translates n into dialect d. It fails only for an unknown dialect.
func Compile(n query.Node, d Dialect) (Query, error) {
	q := Query{Dialect: d, Source: n, Root: n, Probe: probe(n)}
	_, q.MatchAll = n.(query.Empty)

	switch d {
	case FTS5:
		q.Native = query.Fold[string](n, fts5{})
	case RediSearch:
		q.Native = query.Fold[string](n, redisearch{})
	case Tree:
		q.Native = query.Format(n)
	case TreeRelaxed:
		q.Root, q.PostFilter = relax(n)
		q.Native = query.Format(q.Root)
	default:
		return Query{}, fmt.Errorf("unknown query dialect %q", d)
	}
	return q, nil
}

// probe returns the words of a pure conjunction of single-word terms, else nil.
func probe(n query.Node) []string {
	switch n := n.(type) {
	case query.Term:
		if w := query.Words(n.Value); len(w) == 1 {
			return w
		}
	case query.And:
		l, r := probe(n.Left), probe(n.Right)
		if l != nil && r != nil {
			return append(l, r...)
		}
	}
	return nil
}
