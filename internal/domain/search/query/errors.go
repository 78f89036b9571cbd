package query

import (
	"fmt"

	"github.com/kailas-cloud/memedex/internal/domain"
)

// SyntaxError reports a malformed query.
type SyntaxError struct {
	// Pos is the 0-based byte offset of the offending token.
	Pos int
	// Token is the offending source text; empty at end of input.
	Token string
	// Expected names a token that was required but missing, e.g. ")".
	Expected string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("query syntax error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("query syntax error at position %d near %q: %s", e.Pos, e.Token, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return domain.ErrQuerySyntax }

// UnsupportedFieldError reports field scoping to a name outside the indexed set.
// It matches both domain.ErrUnsupportedField and *SyntaxError.
type UnsupportedFieldError struct {
	Field string
	Pos   int
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("unsupported field %q at position %d", e.Field, e.Pos)
}

func (e *UnsupportedFieldError) Unwrap() []error {
	return []error{
		domain.ErrUnsupportedField,
		&SyntaxError{Pos: e.Pos, Token: e.Field, Msg: "unsupported field"},
	}
}

func syntaxErr(pos int, tok, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Token: tok, Msg: fmt.Sprintf(format, args...)}
}
