package meme

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/field"
)

// Size limits for record fields.
const (
	MaxPathLength    = 4096
	MaxTextLength    = 16384
	MaxKeywordCount  = 64
	MaxKeywordLength = 128
)

// Meme is a catalog record (immutable value object).
type Meme struct {
	id          int64
	path        string
	filename    string
	category    string
	hash        string
	text        string
	description string
	keywords    []string
	createdAt   time.Time
}

// Draft carries the caller-supplied attributes of a new record.
type Draft struct {
	Path        string
	Filename    string
	Category    string
	Hash        string
	Text        string
	Description string
	Keywords    []string
}

// New validates a draft and creates an unsaved Meme (id 0) stamped with createdAt.
func New(d Draft, createdAt time.Time) (Meme, error) {
	if strings.TrimSpace(d.Path) == "" {
		return Meme{}, fmt.Errorf("path is required")
	}
	if len(d.Path) > MaxPathLength {
		return Meme{}, fmt.Errorf("path too long (max %d)", MaxPathLength)
	}
	if strings.TrimSpace(d.Filename) == "" {
		return Meme{}, fmt.Errorf("filename is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return Meme{}, fmt.Errorf("category is required")
	}
	if err := validateText(d.Text, d.Description); err != nil {
		return Meme{}, err
	}
	keywords, err := normalizeKeywords(d.Keywords)
	if err != nil {
		return Meme{}, err
	}

	return Meme{
		path:        d.Path,
		filename:    d.Filename,
		category:    d.Category,
		hash:        d.Hash,
		text:        d.Text,
		description: d.Description,
		keywords:    keywords,
		createdAt:   createdAt.UTC(),
	}, nil
}

// Reconstruct creates a Meme without validation (storage hydration).
func Reconstruct(
	id int64, path, filename, category, hash, text, description string,
	keywords []string, createdAt time.Time,
) Meme {
	return Meme{
		id: id, path: path, filename: filename, category: category, hash: hash,
		text: text, description: description, keywords: keywords, createdAt: createdAt.UTC(),
	}
}

// WithID returns a copy carrying the store-assigned identifier.
func (m Meme) WithID(id int64) Meme {
	m.id = id
	return m
}

// ID returns the record identifier (0 until stored).
func (m *Meme) ID() int64 { return m.id }

// Path returns the image path relative to the media root.
func (m *Meme) Path() string { return m.path }

// Filename returns the original file name.
func (m *Meme) Filename() string { return m.filename }

// Category returns the import category (source directory).
func (m *Meme) Category() string { return m.category }

// Hash returns the content hash recorded at import.
func (m *Meme) Hash() string { return m.hash }

// Text returns the text visible in the image.
func (m *Meme) Text() string { return m.text }

// Description returns the image description.
func (m *Meme) Description() string { return m.description }

// Keywords returns the keyword list.
func (m *Meme) Keywords() []string { return m.keywords }

// CreatedAt returns the creation time in UTC.
func (m *Meme) CreatedAt() time.Time { return m.createdAt }

// SearchValues derives the index entry for this record.
// Keywords are flattened into a single space-separated string.
func (m *Meme) SearchValues() field.Values {
	return field.Values{
		field.Text:        m.text,
		field.Description: m.description,
		field.Keywords:    strings.Join(m.keywords, " "),
		field.Filename:    m.filename,
	}
}

func validateText(text, description string) error {
	if len(text) > MaxTextLength {
		return fmt.Errorf("text too long (max %d bytes)", MaxTextLength)
	}
	if len(description) > MaxTextLength {
		return fmt.Errorf("description too long (max %d bytes)", MaxTextLength)
	}
	return nil
}

// normalizeKeywords trims keywords, drops empty ones and enforces limits.
func normalizeKeywords(in []string) ([]string, error) {
	if len(in) > MaxKeywordCount {
		return nil, fmt.Errorf("too many keywords (max %d)", MaxKeywordCount)
	}
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if len(k) > MaxKeywordLength {
			return nil, fmt.Errorf("keyword %q too long (max %d)", k, MaxKeywordLength)
		}
		out = append(out, k)
	}
	return out, nil
}

// Apply returns a copy with the patch applied. Identity and creation time never change.
func (m Meme) Apply(p patch.Patch) (Meme, error) {
	if p.Text() != nil {
		m.text = *p.Text()
	}
	if p.Description() != nil {
		m.description = *p.Description()
	}
	if p.Category() != nil {
		m.category = *p.Category()
	}
	if err := validateText(m.text, m.description); err != nil {
		return Meme{}, err
	}
	if p.Keywords() != nil {
		kw, err := normalizeKeywords(*p.Keywords())
		if err != nil {
			return Meme{}, err
		}
		m.keywords = kw
	}
	return m, nil
}
