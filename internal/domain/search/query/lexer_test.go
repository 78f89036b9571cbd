package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/memedex/internal/domain"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLex_Classes(t *testing.T) {
	toks, err := Lex(`Cat "Grumpy Face" surpr* text:Hello AND or Not NEAR(a b, 3) ( )`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		KindTerm, KindPhrase, KindPrefix, KindField, KindAnd, KindOr, KindNot,
		KindNear, KindLParen, KindRParen,
	}
	if got := kinds(toks); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	if toks[0].Value != "cat" || toks[0].Raw != "Cat" {
		t.Errorf("term = %q/%q, want cat/Cat", toks[0].Value, toks[0].Raw)
	}
	if toks[1].Value != "grumpy face" {
		t.Errorf("phrase = %q", toks[1].Value)
	}
	if toks[2].Value != "surpr" {
		t.Errorf("prefix stem = %q", toks[2].Value)
	}
	if toks[3].Field != field.Text || toks[3].Inner.Kind != KindTerm || toks[3].Inner.Value != "hello" {
		t.Errorf("field token = %+v inner %+v", toks[3], toks[3].Inner)
	}
	if !reflect.DeepEqual(toks[7].Terms, []string{"a", "b"}) || toks[7].Distance != 3 {
		t.Errorf("near = %v/%d", toks[7].Terms, toks[7].Distance)
	}
}

func TestLex_Positions(t *testing.T) {
	toks, err := Lex(`  foo  "b c"  (x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 7, 14, 15, 16}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d pos = %d, want %d", i, tok.Pos, want[i])
		}
	}
}

func TestLex_FieldForms(t *testing.T) {
	tests := []struct {
		in        string
		field     field.Name
		innerKind Kind
		value     string
	}{
		{"description:cat", field.Description, KindTerm, "cat"},
		{"KEYWORDS:dog*", field.Keywords, KindPrefix, "dog"},
		{`filename:"my file"`, field.Filename, KindPhrase, "my file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, err := Lex(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(toks) != 1 || toks[0].Kind != KindField {
				t.Fatalf("tokens = %+v", toks)
			}
			if toks[0].Field != tt.field || toks[0].Inner.Kind != tt.innerKind || toks[0].Inner.Value != tt.value {
				t.Errorf("got %s/%s/%q", toks[0].Field, toks[0].Inner.Kind, toks[0].Inner.Value)
			}
		})
	}
}

func TestLex_NearIsCaseInsensitiveButNeedsParen(t *testing.T) {
	toks, err := Lex("near(x y,0) near")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := kinds(toks); !reflect.DeepEqual(got, []Kind{KindNear, KindTerm}) {
		t.Errorf("kinds = %v", got)
	}
}

func TestLex_OperatorsAreWholeWords(t *testing.T) {
	toks, err := Lex("android oregon notable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind != KindTerm {
			t.Errorf("%q lexed as %s", tok.Raw, tok.Kind)
		}
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pos  int
	}{
		{"unterminated quote", `cat "grumpy`, 4},
		{"empty phrase", `""`, 0},
		{"blank phrase", `"  "`, 0},
		{"leading wildcard", "*cat", 0},
		{"middle wildcard", "ca*t", 2},
		{"double wildcard", "cat**", 3},
		{"lone wildcard", "*", 0},
		{"one letter prefix", "cat a*", 4},
		{"one letter field prefix", "text:é*", 5},
		{"missing field value", "text: cat", 0},
		{"missing field name", ":cat", 0},
		{"punctuation only", "!!!", 0},
		{"near missing comma", "NEAR(a b 3)", 10},
		{"near missing distance", "NEAR(a b, )", 10},
		{"near non-numeric distance", "NEAR(a b, x)", 10},
		{"near unclosed", "NEAR(a b, 3", 11},
		{"near single term", "NEAR(a, 3)", 0},
		{"near quoted term", `NEAR("a" b, 3)`, 5},
		{"near wildcard term", "NEAR(a* b, 3)", 5},
		{"near duplicate terms", "NEAR(a a, 3)", 0},
		{"near distance too large", "NEAR(a b, 101)", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.in)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *SyntaxError", err)
			}
			if se.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d (%v)", se.Pos, tt.pos, err)
			}
			if !errors.Is(err, domain.ErrQuerySyntax) {
				t.Error("error does not match ErrQuerySyntax")
			}
		})
	}
}

func TestLex_UnsupportedField(t *testing.T) {
	_, err := Lex("cat author:bob")
	var ue *UnsupportedFieldError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UnsupportedFieldError", err)
	}
	if ue.Field != "author" || ue.Pos != 4 {
		t.Errorf("got field %q pos %d", ue.Field, ue.Pos)
	}
	if !errors.Is(err, domain.ErrUnsupportedField) {
		t.Error("error does not match ErrUnsupportedField")
	}
	if !errors.Is(err, domain.ErrQuerySyntax) {
		t.Error("unsupported field must also be a syntax error")
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Pos != 4 {
		t.Errorf("errors.As SyntaxError = %v", se)
	}
}

func TestWords(t *testing.T) {
	got := Words("Don't PANIC, it's 42-ish! Ünïcode")
	want := []string{"don", "t", "panic", "it", "s", "42", "ish", "ünïcode"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}
