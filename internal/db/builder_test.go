package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		ExactText("text").
		SortableNumeric("created_at").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "text" || idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field[0] = %+v, want text TEXT", idx.Fields[0])
	}
	if idx.Fields[1].Name != "created_at" || idx.Fields[1].Type != IndexFieldNumeric || !idx.Fields[1].Sortable {
		t.Errorf("field[1] = %+v, want created_at NUMERIC SORTABLE", idx.Fields[1])
	}
}

func TestIndexBuilder_ExactText(t *testing.T) {
	idx := NewIndex("x-idx").ExactText("text").MustBuild()
	if !idx.Fields[0].NoStem || idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field = %+v, want TEXT NOSTEM", idx.Fields[0])
	}
	if !strings.HasSuffix(idx.String(), "text TEXT NOSTEM") {
		t.Errorf("String() = %q", idx.String())
	}
}

func TestIndexBuilder_ExactTextAs(t *testing.T) {
	idx := NewIndex("a-idx").
		ExactTextAs("w_text", "text").
		ExactTextAs("w_keywords", "keywords").
		MustBuild()

	f := idx.Fields[0]
	if f.Name != "w_text" || f.Alias != "text" || !f.NoStem {
		t.Errorf("field = %+v, want w_text AS text NOSTEM", f)
	}
	if !strings.HasSuffix(idx.String(), "w_text AS text TEXT NOSTEM w_keywords AS keywords TEXT NOSTEM") {
		t.Errorf("String() = %q", idx.String())
	}
}

func TestIndexBuilder_DuplicateAlias(t *testing.T) {
	_, err := NewIndex("d-idx").
		ExactText("text").
		ExactTextAs("w_text", "text").
		Build()
	if err == nil || !strings.Contains(err.Error(), "duplicate field name: text") {
		t.Errorf("err = %v, want duplicate text", err)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		ExactText("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").ExactText("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").ExactText("x").Build()
			},
			wantErr: "invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("doc:").
		NoStopwords().
		ExactText("text").
		SortableNumeric("created_at").
		MustBuild()

	want := "FT.CREATE my-idx ON HASH PREFIX doc: STOPWORDS 0 SCHEMA " +
		"text TEXT NOSTEM created_at NUMERIC SORTABLE"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIndexBuilder_Alias(t *testing.T) {
	idx := &IndexDefinition{
		Name:     "alias-idx",
		Prefixes: []string{"a:"},
		Fields: []IndexField{
			{Name: "body", Alias: "text", Type: IndexFieldText},
		},
	}

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Fields[0].Alias != "text" {
		t.Errorf("alias = %q, want text", idx.Fields[0].Alias)
	}
}

func TestIndexBuilder_DuplicateFields(t *testing.T) {
	idx := &IndexDefinition{
		Name: "dup-idx",
		Fields: []IndexField{
			{Name: "field1", Type: IndexFieldText},
			{Name: "field1", Type: IndexFieldNumeric},
		},
	}

	if err := idx.Validate(); err == nil {
		t.Fatal("expected error for duplicate fields")
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"memedex:memes", true},
		{"a_b-c", true},
		{"", false},
		{"a b", false},
		{"a*", false},
	}
	for _, tt := range tests {
		if got := IsValidIdentifier(tt.in); got != tt.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIndexDefinition_ValidateReportsEveryProblem(t *testing.T) {
	idx := &IndexDefinition{
		Name: "bad name",
		Fields: []IndexField{
			{Name: "", Type: IndexFieldText},
			{Name: "score", Type: IndexFieldNumeric, NoStem: true},
			{Name: "body", Alias: "score", Type: IndexFieldText},
		},
	}

	err := idx.Validate()
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *multierror.Error, got %T (%v)", err, err)
	}
	if len(merr.Errors) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(merr.Errors), err)
	}
	for _, want := range []string{"invalid characters", "field 0", "NUMERIC", "duplicate field name: score"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestIsOp(t *testing.T) {
	err := fmt.Errorf("insert: %w", &Error{Op: OpIncr, Err: errors.New("READONLY")})
	if !IsOp(err, OpIncr) {
		t.Error("expected INCR op")
	}
	if IsOp(err, OpHSet) {
		t.Error("unexpected HSET op")
	}
	if IsOp(errors.New("plain"), OpIncr) {
		t.Error("plain errors carry no op")
	}
}
