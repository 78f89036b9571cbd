package compile

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// fts5 renders SQLite FTS5 MATCH expressions. Column names equal field names.
type fts5 struct{}

var _ query.Visitor[string] = fts5{}

func (fts5) Empty() string { return "" }

func (fts5) Term(n query.Term) string {
	if isBareword(n.Value) {
		return n.Value
	}
	return fts5Quote(n.Value)
}

func (fts5) Phrase(n query.Phrase) string {
	return fts5Quote(strings.Join(query.Words(n.Text), " "))
}

func (fts5) Prefix(n query.Prefix) string {
	if isBareword(n.Stem) {
		return n.Stem + "*"
	}
	return fts5Quote(n.Stem) + " *"
}

// Near widens the distance: FTS5 counts the inner NEAR terms as intervening
// tokens, the query language does not.
func (fts5) Near(n query.Near) string {
	dist := n.Distance + len(n.Terms) - 2
	return "NEAR(" + strings.Join(n.Terms, " ") + ", " + strconv.Itoa(dist) + ")"
}

func (fts5) Field(n query.Field, inner string) string {
	return string(n.Name) + " : " + inner
}

func (fts5) And(l, r string) string { return "(" + l + " AND " + r + ")" }

func (fts5) Or(l, r string) string { return "(" + l + " OR " + r + ")" }

func (fts5) Not(l, r string) string { return "(" + l + " NOT " + r + ")" }

func fts5Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isBareword reports whether s can appear unquoted in an FTS5 expression.
func isBareword(s string) bool {
	if s == "" {
		return false
	}
	switch s {
	case "AND", "OR", "NOT", "NEAR":
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c >= 0x80 || c == '_' || c == 0x1a ||
			(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !ok {
			return false
		}
	}
	return true
}
