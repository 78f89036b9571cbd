package query

import (
	"strconv"
	"strings"
)

const (
	precOr = iota + 1
	precAnd
	precNot
	precLeaf
)

// Format renders n in canonical query syntax: explicit upper-case operators,
// single spaces and only the parentheses precedence requires.
// Parse(Format(n)) reproduces n for every tree Parse returns whose
// canonical form stays within MaxLength.
func Format(n Node) string {
	return Fold[formatted](n, formatter{}).text
}

type formatted struct {
	text string
	prec int
}

type formatter struct{}

var _ Visitor[formatted] = formatter{}

func (formatter) Empty() formatted { return formatted{prec: precLeaf} }

func (formatter) Term(n Term) formatted { return formatted{n.Value, precLeaf} }

func (formatter) Phrase(n Phrase) formatted { return formatted{`"` + n.Text + `"`, precLeaf} }

func (formatter) Prefix(n Prefix) formatted { return formatted{n.Stem + "*", precLeaf} }

func (formatter) Near(n Near) formatted {
	return formatted{
		"NEAR(" + strings.Join(n.Terms, " ") + ", " + strconv.Itoa(n.Distance) + ")",
		precLeaf,
	}
}

func (formatter) Field(n Field, inner formatted) formatted {
	return formatted{string(n.Name) + ":" + inner.text, precLeaf}
}

func (formatter) And(l, r formatted) formatted { return binary(l, r, "AND", precAnd) }

func (formatter) Or(l, r formatted) formatted { return binary(l, r, "OR", precOr) }

func (formatter) Not(l, r formatted) formatted { return binary(l, r, "NOT", precNot) }

// binary wraps the left side when it binds looser and the right side when it
// binds looser or equally, since every operator is left-associative.
func binary(l, r formatted, op string, prec int) formatted {
	left, right := l.text, r.text
	if l.prec < prec {
		left = "(" + left + ")"
	}
	if r.prec <= prec {
		right = "(" + right + ")"
	}
	return formatted{left + " " + op + " " + right, prec}
}
