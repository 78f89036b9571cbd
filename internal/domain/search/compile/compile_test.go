package compile

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

func mustParse(t *testing.T, s string) query.Node {
	t.Helper()
	n, err := query.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestCompile_FTS5(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat", "cat"},
		{"Cat dog", "(cat AND dog)"},
		{"cat OR dog NOT bird", "(cat OR (dog NOT bird))"},
		{`"Grumpy  cat!"`, `"grumpy cat"`},
		{"surp*", "surp*"},
		{"don't", `"don't"`},
		{"text:cat", "text : cat"},
		{`description:"so sad"`, `description : "so sad"`},
		{"keywords:pika*", "keywords : pika*"},
		{"NEAR(a b, 3)", "NEAR(a b, 3)"},
		{"NEAR(a b c, 3)", "NEAR(a b c, 4)"},
		{"near", "near"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Compile(mustParse(t, tt.in), FTS5)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if q.Native != tt.want {
				t.Errorf("Native = %q, want %q", q.Native, tt.want)
			}
			if q.PostFilter {
				t.Error("FTS5 never needs a post-filter")
			}
		})
	}
}

func TestCompile_RediSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "*"},
		{"cat", "cat"},
		{"cat dog", "(cat dog)"},
		{"cat OR dog", "(cat | dog)"},
		{"cat NOT dog", "(cat -(dog))"},
		{`"grumpy cat"`, `"grumpy cat"`},
		{"don't", `"don t"`},
		{"surp*", "surp*"},
		{"text:cat", "@text:(cat)"},
		{`filename:"img 01"`, `@filename:("img 01")`},
		{"NEAR(a b, 2)", "((a b) => { $slop: 2; $inorder: false; })"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Compile(mustParse(t, tt.in), RediSearch)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if q.Native != tt.want {
				t.Errorf("Native = %q, want %q", q.Native, tt.want)
			}
		})
	}
}

func TestCompile_Empty(t *testing.T) {
	for _, d := range []Dialect{FTS5, RediSearch, Tree, TreeRelaxed} {
		q, err := Compile(query.Empty{}, d)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if !q.MatchAll {
			t.Errorf("%s: MatchAll = false", d)
		}
	}
}

func TestCompile_UnknownDialect(t *testing.T) {
	if _, err := Compile(query.Term{Value: "x"}, Dialect("lucene")); err == nil {
		t.Error("expected error")
	}
}

func TestCompile_Probe(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cat", []string{"cat"}},
		{"cat AND dog bird", []string{"cat", "dog", "bird"}},
		{"cat OR dog", nil},
		{"cat dog*", nil},
		{`cat "dog"`, nil},
		{"don't", nil},
		{"text:cat", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, _ := Compile(mustParse(t, tt.in), Tree)
			if !reflect.DeepEqual(q.Probe, tt.want) {
				t.Errorf("Probe = %v, want %v", q.Probe, tt.want)
			}
		})
	}
}

func TestCompile_TreeKeepsProximity(t *testing.T) {
	n := mustParse(t, "NEAR(a b, 1)")
	q, _ := Compile(n, Tree)
	if !reflect.DeepEqual(q.Root, n) || q.PostFilter {
		t.Errorf("Root = %#v, PostFilter = %v", q.Root, q.PostFilter)
	}
}

func TestCompile_TreeRelaxed(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		postFilter bool
	}{
		{"cat dog", "cat AND dog", false},
		{"NEAR(a b c, 1)", "a AND b AND c", true},
		{"x NEAR(a b, 1)", "x AND (a AND b)", true},
		{"x NOT NEAR(a b, 1)", "x", true},
		{"x NOT (y NEAR(a b, 1))", "x", true},
		{"x NOT (y OR NEAR(a b, 1))", "x NOT y", true},
		{"x NOT (NEAR(a b, 1) NOT y)", "x", true},
		{"x NOT (y NOT NEAR(a b, 1))", "x NOT (y NOT (a AND b))", true},
		{"NEAR(a b, 1) OR x", "a AND b OR x", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Compile(mustParse(t, tt.in), TreeRelaxed)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if q.Native != tt.want {
				t.Errorf("Native = %q, want %q", q.Native, tt.want)
			}
			if q.PostFilter != tt.postFilter {
				t.Errorf("PostFilter = %v, want %v", q.PostFilter, tt.postFilter)
			}
			if !reflect.DeepEqual(q.Source, mustParse(t, tt.in)) {
				t.Error("Source must stay the parsed tree")
			}
		})
	}
}
