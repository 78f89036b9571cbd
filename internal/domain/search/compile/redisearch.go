package compile

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// redisearch renders Redis Query Engine expressions (DIALECT 2).
// Attribute names equal field names.
type redisearch struct{}

var _ query.Visitor[string] = redisearch{}

func (redisearch) Empty() string { return "*" }

// Term splits the value like the indexer does; several words become an exact phrase.
func (redisearch) Term(n query.Term) string {
	words := query.Words(n.Value)
	if len(words) == 1 {
		return queryEscaper.Replace(words[0])
	}
	return redisPhrase(words)
}

func (redisearch) Phrase(n query.Phrase) string {
	return redisPhrase(query.Words(n.Text))
}

func (redisearch) Prefix(n query.Prefix) string {
	return queryEscaper.Replace(n.Stem) + "*"
}

func (redisearch) Near(n query.Near) string {
	terms := make([]string, len(n.Terms))
	for i, t := range n.Terms {
		terms[i] = queryEscaper.Replace(t)
	}
	return "((" + strings.Join(terms, " ") + ") => { $slop: " + strconv.Itoa(n.Distance) + "; $inorder: false; })"
}

func (redisearch) Field(n query.Field, inner string) string {
	return "@" + string(n.Name) + ":(" + inner + ")"
}

func (redisearch) And(l, r string) string { return "(" + l + " " + r + ")" }

func (redisearch) Or(l, r string) string { return "(" + l + " | " + r + ")" }

func (redisearch) Not(l, r string) string { return "(" + l + " -(" + r + "))" }

func redisPhrase(words []string) string {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = queryEscaper.Replace(w)
	}
	return `"` + strings.Join(escaped, " ") + `"`
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
