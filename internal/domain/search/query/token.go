package query

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

// Kind classifies a lexed token.
type Kind int

// Token kinds.
const (
	KindTerm Kind = iota + 1
	KindPhrase
	KindPrefix
	KindField
	KindAnd
	KindOr
	KindNot
	KindNear
	KindLParen
	KindRParen
)

var kindNames = map[Kind]string{
	KindTerm:   "term",
	KindPhrase: "phrase",
	KindPrefix: "prefix",
	KindField:  "field",
	KindAnd:    "AND",
	KindOr:     "OR",
	KindNot:    "NOT",
	KindNear:   "NEAR",
	KindLParen: "(",
	KindRParen: ")",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Token is one lexical unit of a query.
// Pos is the 0-based byte offset of the token in the source string.
type Token struct {
	Kind Kind
	Pos  int
	// Raw is the source text as typed, used when echoing errors.
	Raw string
	// Value is the lowercased term, phrase text or prefix stem.
	Value string

	// Field and Inner are set for KindField.
	Field field.Name
	Inner *Token

	// Terms and Distance are set for KindNear.
	Terms    []string
	Distance int
}

// Words splits text into lowercase index words: maximal runs of Unicode
// letters and digits. Every backend indexes text with the same rule.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isWord reports whether s is a single non-empty index word.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}
