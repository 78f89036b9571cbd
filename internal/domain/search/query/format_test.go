package query

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Cat", "cat"},
		{"a b", "a AND b"},
		{"a or (b c)", "a OR b AND c"},
		{"(a OR b) c", "(a OR b) AND c"},
		{"a OR (b OR c)", "a OR (b OR c)"},
		{"a NOT (b NOT c)", "a NOT (b NOT c)"},
		{"(a NOT b) NOT c", "a NOT b NOT c"},
		{"a NOT (b c)", "a NOT (b AND c)"},
		{`TEXT:"Hello  World"`, `text:"hello  world"`},
		{"description:sad*", "description:sad*"},
		{"near( x  y ,2)", "NEAR(x y, 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := Format(n); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		"pikachu AND (surprised OR shocked)",
		`"grumpy cat" NOT keywords:dog*`,
		"a OR b OR c",
		"a OR (b OR c)",
		"a (b (c (d OR e)))",
		"(a NOT b) NOT (c NOT d)",
		"NEAR(one two three, 5) OR filename:\"img 01\"",
		"x NOT NEAR(a b, 1) y",
		"near nearly",
		"ÜBER straße",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, err := Parse(in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			canonical := Format(first)
			second, err := Parse(canonical)
			if err != nil {
				t.Fatalf("reparse %q: %v", canonical, err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("round trip via %q:\n got %#v\nwant %#v", canonical, second, first)
			}
			if again := Format(second); again != canonical {
				t.Errorf("Format not idempotent: %q then %q", canonical, again)
			}
		})
	}
}

func TestFold_CountsLeaves(t *testing.T) {
	n := And{Or{Term{"a"}, Field{Name: field.Text, Expr: Prefix{"b"}}}, Not{Phrase{"c d"}, Near{Terms: []string{"e", "f"}}}}
	if got := Fold[int](n, leafCounter{}); got != 4 {
		t.Errorf("leaves = %d, want 4", got)
	}
}

type leafCounter struct{}

func (leafCounter) Empty() int { return 0 }
func (leafCounter) Term(Term) int { return 1 }
func (leafCounter) Phrase(Phrase) int { return 1 }
func (leafCounter) Prefix(Prefix) int { return 1 }
func (leafCounter) Near(Near) int { return 1 }
func (leafCounter) Field(_ Field, n int) int { return n }
func (leafCounter) And(l, r int) int { return l + r }
func (leafCounter) Or(l, r int) int { return l + r }
func (leafCounter) Not(l, r int) int { return l + r }
