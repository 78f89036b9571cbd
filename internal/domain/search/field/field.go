package field

import "strings"

// Name is an indexed text field of a meme record.
type Name string

// Indexed field names. Field scoping in queries is limited to this set.
const (
	Text        Name = "text"
	Description Name = "description"
	Keywords    Name = "keywords"
	Filename    Name = "filename"
)

var all = []Name{Text, Description, Keywords, Filename}

// All returns the indexed fields in canonical (index column) order.
func All() []Name {
	out := make([]Name, len(all))
	copy(out, all)
	return out
}

// Parse resolves a user-supplied field name case-insensitively.
func Parse(s string) (Name, bool) {
	n := Name(strings.ToLower(s))
	for _, f := range all {
		if f == n {
			return f, true
		}
	}
	return "", false
}

// String returns the field name.
func (n Name) String() string { return string(n) }

// Values holds the indexed text of one record, keyed by field.
type Values map[Name]string
