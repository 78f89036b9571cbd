package query

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

// MinPrefixLen is the shortest stem a prefix query may have.
const MinPrefixLen = 2

// MaxNearDistance bounds the distance argument of NEAR.
const MaxNearDistance = 100

// Lex splits a raw query into tokens. Whitespace separates tokens outside quotes.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

type lexer struct {
	src  string
	pos  int
	toks []Token
}

func (l *lexer) run() error {
	for {
		l.skipSpace()
		if l.eof() {
			return nil
		}
		start := l.pos
		switch l.src[l.pos] {
		case '(':
			l.pos++
			l.toks = append(l.toks, Token{Kind: KindLParen, Pos: start, Raw: "("})
		case ')':
			l.pos++
			l.toks = append(l.toks, Token{Kind: KindRParen, Pos: start, Raw: ")"})
		case '"':
			tok, err := l.phrase()
			if err != nil {
				return err
			}
			l.toks = append(l.toks, tok)
		default:
			if err := l.word(); err != nil {
				return err
			}
		}
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// scan consumes runes until stop reports true or input ends.
func (l *lexer) scan(stop func(rune) bool) string {
	start := l.pos
	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if stop(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

func isDelim(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}

// rawAt returns the source text from pos up to the next whitespace, for error messages.
func (l *lexer) rawAt(pos int) string {
	if pos >= len(l.src) {
		return ""
	}
	end := strings.IndexFunc(l.src[pos:], unicode.IsSpace)
	if end < 0 {
		return l.src[pos:]
	}
	return l.src[pos : pos+end]
}

func (l *lexer) phrase() (Token, error) {
	start := l.pos
	end := strings.IndexByte(l.src[start+1:], '"')
	if end < 0 {
		return Token{}, &SyntaxError{
			Pos: start, Token: l.src[start:], Expected: `"`, Msg: "unterminated quote",
		}
	}
	text := l.src[start+1 : start+1+end]
	l.pos = start + end + 2
	raw := l.src[start:l.pos]
	if len(Words(text)) == 0 {
		return Token{}, syntaxErr(start, raw, "empty phrase")
	}
	return Token{Kind: KindPhrase, Pos: start, Raw: raw, Value: strings.ToLower(text)}, nil
}

func (l *lexer) word() error {
	start := l.pos
	w := l.scan(isDelim)

	upper := strings.ToUpper(w)
	if upper == "NEAR" && l.peek() == '(' {
		return l.near(start)
	}
	switch upper {
	case "AND":
		l.toks = append(l.toks, Token{Kind: KindAnd, Pos: start, Raw: w})
		return nil
	case "OR":
		l.toks = append(l.toks, Token{Kind: KindOr, Pos: start, Raw: w})
		return nil
	case "NOT":
		l.toks = append(l.toks, Token{Kind: KindNot, Pos: start, Raw: w})
		return nil
	}

	if i := strings.IndexByte(w, ':'); i >= 0 {
		return l.field(start, w, i)
	}
	tok, err := wordToken(w, start)
	if err != nil {
		return err
	}
	l.toks = append(l.toks, tok)
	return nil
}

func (l *lexer) field(start int, w string, colon int) error {
	if colon == 0 {
		return syntaxErr(start, w, "missing field name before ':'")
	}
	name := w[:colon]
	f, ok := field.Parse(name)
	if !ok {
		return &UnsupportedFieldError{Field: name, Pos: start}
	}

	var inner Token
	rest := w[colon+1:]
	switch {
	case rest == "" && l.peek() == '"':
		tok, err := l.phrase()
		if err != nil {
			return err
		}
		inner = tok
	case rest == "":
		return &SyntaxError{
			Pos: start, Token: w, Expected: "term",
			Msg: "missing value after field " + strconv.Quote(name),
		}
	default:
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			return syntaxErr(start+colon+1+i, rest, "unexpected ':'")
		}
		tok, err := wordToken(rest, start+colon+1)
		if err != nil {
			return err
		}
		inner = tok
	}

	l.toks = append(l.toks, Token{
		Kind: KindField, Pos: start, Raw: l.src[start:l.pos], Field: f, Inner: &inner,
	})
	return nil
}

// wordToken classifies a bare word as a Term or Prefix.
func wordToken(w string, pos int) (Token, error) {
	if i := strings.IndexByte(w, '*'); i >= 0 {
		if i == 0 || i != len(w)-1 {
			return Token{}, syntaxErr(pos+i, w, "wildcard '*' is only allowed once at the end of a word")
		}
		stem := strings.ToLower(w[:i])
		if !isWord(stem) {
			return Token{}, syntaxErr(pos, w, "prefix must be letters or digits followed by '*'")
		}
		if utf8.RuneCountInString(stem) < MinPrefixLen {
			return Token{}, syntaxErr(pos, w, "prefix needs at least %d characters before '*'", MinPrefixLen)
		}
		return Token{Kind: KindPrefix, Pos: pos, Raw: w, Value: stem}, nil
	}
	if len(Words(w)) == 0 {
		return Token{}, syntaxErr(pos, w, "term has no searchable characters")
	}
	return Token{Kind: KindTerm, Pos: pos, Raw: w, Value: strings.ToLower(w)}, nil
}

// near lexes NEAR(term term ..., distance) starting at the '(' after the keyword.
func (l *lexer) near(start int) error {
	l.pos++ // '('
	var terms []string
	for {
		l.skipSpace()
		if l.eof() {
			return &SyntaxError{Pos: len(l.src), Expected: ",", Msg: "unterminated NEAR: missing ',' and distance"}
		}
		c := l.src[l.pos]
		if c == ',' {
			break
		}
		if c == ')' {
			return &SyntaxError{Pos: l.pos, Token: ")", Expected: ",", Msg: "NEAR requires ',' followed by a distance"}
		}
		if c == '(' || c == '"' {
			return syntaxErr(l.pos, string(c), "NEAR accepts bare words only")
		}
		wordPos := l.pos
		w := l.scan(func(r rune) bool { return isDelim(r) || r == ',' })
		lw := strings.ToLower(w)
		if !isWord(lw) {
			return syntaxErr(wordPos, w, "NEAR accepts bare words only")
		}
		terms = append(terms, lw)
	}
	l.pos++ // ','

	l.skipSpace()
	distPos := l.pos
	for !l.eof() && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	digits := l.src[distPos:l.pos]
	if digits == "" {
		return &SyntaxError{
			Pos: distPos, Token: l.rawAt(distPos), Expected: "distance",
			Msg: "NEAR distance must be a non-negative integer",
		}
	}
	dist, err := strconv.Atoi(digits)
	if err != nil || dist > MaxNearDistance {
		return syntaxErr(distPos, digits, "NEAR distance must be at most %d", MaxNearDistance)
	}

	l.skipSpace()
	if l.peek() != ')' {
		return &SyntaxError{Pos: l.pos, Token: l.rawAt(l.pos), Expected: ")", Msg: "missing ')' to close NEAR"}
	}
	l.pos++
	raw := l.src[start:l.pos]

	if len(terms) < 2 {
		return syntaxErr(start, raw, "NEAR needs at least two terms")
	}
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			return syntaxErr(start, raw, "NEAR terms must be distinct")
		}
		seen[t] = struct{}{}
	}

	l.toks = append(l.toks, Token{Kind: KindNear, Pos: start, Raw: raw, Terms: terms, Distance: dist})
	return nil
}
