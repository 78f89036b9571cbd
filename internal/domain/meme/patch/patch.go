package patch

import "fmt"

// Patch is a partial record update. Nil fields are unchanged.
type Patch struct {
	text        *string
	description *string
	category    *string
	keywords    *[]string
}

// New validates and creates a Patch. At least one field must be provided.
func New(text, description, category *string, keywords *[]string) (Patch, error) {
	if text == nil && description == nil && category == nil && keywords == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	if category != nil && *category == "" {
		return Patch{}, fmt.Errorf("category cannot be empty")
	}
	var kw *[]string
	if keywords != nil {
		cp := make([]string, len(*keywords))
		copy(cp, *keywords)
		kw = &cp
	}
	return Patch{text: text, description: description, category: category, keywords: kw}, nil
}

// Text returns the new text, or nil if unchanged.
func (p Patch) Text() *string { return p.text }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// Category returns the new category, or nil if unchanged.
func (p Patch) Category() *string { return p.category }

// Keywords returns the replacement keyword list, or nil if unchanged.
func (p Patch) Keywords() *[]string { return p.keywords }
