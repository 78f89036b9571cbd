package meme

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

func validDraft() Draft {
	return Draft{
		Path:        "reactions/cat.jpg",
		Filename:    "cat.jpg",
		Category:    "reactions",
		Hash:        "abc123",
		Text:        "I can has cheezburger",
		Description: "a cat asking for food",
		Keywords:    []string{" cat ", "", "food"},
	}
}

func TestNew_Valid(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	m, err := New(validDraft(), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID() != 0 {
		t.Errorf("ID() = %d, want 0", m.ID())
	}
	if m.CreatedAt().Location() != time.UTC {
		t.Errorf("CreatedAt() not UTC: %v", m.CreatedAt())
	}
	if !m.CreatedAt().Equal(at) {
		t.Errorf("CreatedAt() = %v, want %v", m.CreatedAt(), at)
	}
	kw := m.Keywords()
	if len(kw) != 2 || kw[0] != "cat" || kw[1] != "food" {
		t.Errorf("Keywords() = %v, want [cat food]", kw)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
	}{
		{"missing path", func(d *Draft) { d.Path = " " }},
		{"path too long", func(d *Draft) { d.Path = strings.Repeat("p", MaxPathLength+1) }},
		{"missing filename", func(d *Draft) { d.Filename = "" }},
		{"missing category", func(d *Draft) { d.Category = "" }},
		{"text too long", func(d *Draft) { d.Text = strings.Repeat("t", MaxTextLength+1) }},
		{"description too long", func(d *Draft) { d.Description = strings.Repeat("d", MaxTextLength+1) }},
		{"too many keywords", func(d *Draft) { d.Keywords = make([]string, MaxKeywordCount+1) }},
		{"keyword too long", func(d *Draft) { d.Keywords = []string{strings.Repeat("k", MaxKeywordLength+1)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			if _, err := New(d, time.Now()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSearchValues_FlattensKeywords(t *testing.T) {
	m, err := New(validDraft(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := m.SearchValues()
	if v[field.Keywords] != "cat food" {
		t.Errorf("keywords = %q, want %q", v[field.Keywords], "cat food")
	}
	if v[field.Filename] != "cat.jpg" {
		t.Errorf("filename = %q", v[field.Filename])
	}
	if len(v) != len(field.All()) {
		t.Errorf("got %d fields, want %d", len(v), len(field.All()))
	}
}

func TestWithID(t *testing.T) {
	m, _ := New(validDraft(), time.Now())
	stored := m.WithID(42)
	if stored.ID() != 42 {
		t.Errorf("ID() = %d, want 42", stored.ID())
	}
	if m.ID() != 0 {
		t.Error("WithID mutated the receiver")
	}
}

func TestApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := Reconstruct(7, "a/b.png", "b.png", "a", "h", "old", "old desc", []string{"x"}, created)

	text := "new text"
	kw := []string{"y", " z "}
	p, err := patch.New(&text, nil, nil, &kw)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, err := m.Apply(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != 7 || !got.CreatedAt().Equal(created) {
		t.Error("Apply must keep identity and creation time")
	}
	if got.Text() != "new text" {
		t.Errorf("Text() = %q", got.Text())
	}
	if got.Description() != "old desc" {
		t.Errorf("Description() = %q, want unchanged", got.Description())
	}
	if k := got.Keywords(); len(k) != 2 || k[1] != "z" {
		t.Errorf("Keywords() = %v", k)
	}
	if m.Text() != "old" {
		t.Error("Apply mutated the receiver")
	}
}

func TestApply_Invalid(t *testing.T) {
	m := Reconstruct(1, "p", "f", "c", "", "", "", nil, time.Now())
	long := strings.Repeat("x", MaxTextLength+1)
	p, _ := patch.New(nil, &long, nil, nil)
	if _, err := m.Apply(p); err == nil {
		t.Error("expected validation error")
	}
}
