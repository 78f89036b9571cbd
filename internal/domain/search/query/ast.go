package query

import (
	"fmt"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

// Node is an immutable query AST node.
type Node interface {
	node()
}

// Empty is the "no filter" query produced by blank input.
type Empty struct{}

// Term matches a word. Value is lowercased.
type Term struct {
	Value string
}

// Phrase matches a contiguous word sequence. Text is lowercased.
type Phrase struct {
	Text string
}

// Prefix matches any word starting with Stem.
type Prefix struct {
	Stem string
}

// Field restricts a Term, Phrase or Prefix to one indexed field.
type Field struct {
	Name field.Name
	Expr Node
}

// And matches records matching both sides.
type And struct {
	Left, Right Node
}

// Or matches records matching either side.
type Or struct {
	Left, Right Node
}

// Not matches records matching Left but not Right.
type Not struct {
	Left, Right Node
}

// Near matches records where all Terms occur in one field with at most
// Distance other words between the first and the last of them.
type Near struct {
	Terms    []string
	Distance int
}

func (Empty) node()  {}
func (Term) node()   {}
func (Phrase) node() {}
func (Prefix) node() {}
func (Field) node()  {}
func (And) node()    {}
func (Or) node()     {}
func (Not) node()    {}
func (Near) node()   {}

// Visitor computes a value bottom-up over an AST. Every node kind has a method,
// so a new kind cannot be added without every compiler handling it.
type Visitor[T any] interface {
	Empty() T
	Term(n Term) T
	Phrase(n Phrase) T
	Prefix(n Prefix) T
	Near(n Near) T
	Field(n Field, inner T) T
	And(left, right T) T
	Or(left, right T) T
	Not(left, right T) T
}

// Fold walks n depth-first, combining child results with v.
func Fold[T any](n Node, v Visitor[T]) T {
	switch n := n.(type) {
	case Empty:
		return v.Empty()
	case Term:
		return v.Term(n)
	case Phrase:
		return v.Phrase(n)
	case Prefix:
		return v.Prefix(n)
	case Near:
		return v.Near(n)
	case Field:
		return v.Field(n, Fold(n.Expr, v))
	case And:
		return v.And(Fold(n.Left, v), Fold(n.Right, v))
	case Or:
		return v.Or(Fold(n.Left, v), Fold(n.Right, v))
	case Not:
		return v.Not(Fold(n.Left, v), Fold(n.Right, v))
	default:
		panic(fmt.Sprintf("query: unknown node type %T", n))
	}
}
