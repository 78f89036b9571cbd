package query

import (
	"strconv"
	"strings"
)

// Limits applied by Parse.
const (
	MaxLength = 1024
	MaxDepth  = 32
)

// Parse turns a raw query string into an AST.
//
// Grammar, lowest precedence first, all binary operators left-associative:
//
//	query   := ε | orExpr
//	orExpr  := andExpr ( OR andExpr )*
//	andExpr := notExpr ( [AND] notExpr )*
//	notExpr := primary ( NOT primary )*
//	primary := TERM | PHRASE | PREFIX | FIELD | NEAR | "(" orExpr ")"
//
// Blank input yields Empty.
func Parse(src string) (Node, error) {
	if len(src) > MaxLength {
		return nil, syntaxErr(MaxLength, "", "query longer than %d bytes", MaxLength)
	}
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return Empty{}, nil
	}

	p := &parser{toks: toks, end: len(src)}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		if tok.Kind == KindRParen {
			return nil, syntaxErr(tok.Pos, tok.Raw, "unmatched ')'")
		}
		return nil, syntaxErr(tok.Pos, tok.Raw, "unexpected %s", tok.Kind)
	}
	return n, nil
}

// IsBlank reports whether src contains no tokens.
func IsBlank(src string) bool {
	return strings.TrimSpace(src) == ""
}

type parser struct {
	toks []Token
	i    int
	end  int
	// opens holds positions of the currently unclosed '(' tokens.
	opens []int
}

func (p *parser) peek() (Token, bool) {
	if p.i >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) accept(k Kind) bool {
	if tok, ok := p.peek(); ok && tok.Kind == k {
		p.i++
		return true
	}
	return false
}

func (p *parser) or() (Node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(KindOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) and() (Node, error) {
	left, err := p.not()
	if err != nil {
		return nil, err
	}
	for {
		if !p.accept(KindAnd) {
			tok, ok := p.peek()
			if !ok || !startsPrimary(tok.Kind) {
				return left, nil
			}
		}
		right, err := p.not()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) not() (Node, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.accept(KindNot) {
		right, err := p.primary()
		if err != nil {
			return nil, err
		}
		left = Not{Left: left, Right: right}
	}
	return left, nil
}

func startsPrimary(k Kind) bool {
	switch k {
	case KindTerm, KindPhrase, KindPrefix, KindField, KindNear, KindLParen:
		return true
	default:
		return false
	}
}

func (p *parser) primary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		if n := len(p.opens); n > 0 {
			return nil, &SyntaxError{
				Pos: p.end, Expected: ")",
				Msg: "query ends inside '(' at position " + strconv.Itoa(p.opens[n-1]) + ": missing ')'",
			}
		}
		return nil, &SyntaxError{Pos: p.end, Expected: "term", Msg: "unexpected end of query"}
	}
	switch tok.Kind {
	case KindTerm, KindPhrase, KindPrefix:
		p.i++
		return leaf(tok), nil
	case KindField:
		p.i++
		return Field{Name: tok.Field, Expr: leaf(*tok.Inner)}, nil
	case KindNear:
		p.i++
		return Near{Terms: tok.Terms, Distance: tok.Distance}, nil
	case KindLParen:
		return p.group(tok)
	case KindRParen:
		return nil, &SyntaxError{Pos: tok.Pos, Token: tok.Raw, Expected: "term", Msg: "unexpected ')'"}
	default:
		return nil, &SyntaxError{
			Pos: tok.Pos, Token: tok.Raw, Expected: "term",
			Msg: "operator " + tok.Kind.String() + " must have an operand on both sides",
		}
	}
}

func (p *parser) group(open Token) (Node, error) {
	if len(p.opens) >= MaxDepth {
		return nil, syntaxErr(open.Pos, open.Raw, "groups nested deeper than %d", MaxDepth)
	}
	p.opens = append(p.opens, open.Pos)
	p.i++
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.accept(KindRParen) {
		pos, raw := p.end, ""
		if tok, ok := p.peek(); ok {
			pos, raw = tok.Pos, tok.Raw
		}
		return nil, &SyntaxError{
			Pos: pos, Token: raw, Expected: ")",
			Msg: "missing ')' to close '(' at position " + strconv.Itoa(open.Pos),
		}
	}
	p.opens = p.opens[:len(p.opens)-1]
	return n, nil
}

func leaf(tok Token) Node {
	switch tok.Kind {
	case KindPhrase:
		return Phrase{Text: tok.Value}
	case KindPrefix:
		return Prefix{Stem: tok.Value}
	default:
		return Term{Value: tok.Value}
	}
}
