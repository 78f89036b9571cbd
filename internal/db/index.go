package db

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// StorageType defines the document storage backend for FT indexes.
type StorageType string

// StorageHash stores records as Redis hashes.
const StorageHash StorageType = "HASH"

// IndexFieldType enumerates supported FT index field types.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric field.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldText is a full-text field.
	IndexFieldText
)

// IndexField describes a single field in an FT index schema.
type IndexField struct {
	Name     string
	Alias    string // AS alias in FT.CREATE SCHEMA
	Type     IndexFieldType
	Sortable bool

	NoStem bool // TEXT only
}

// key is the name queries use for the field.
func (f *IndexField) key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// IndexDefinition is a complete FT index definition used by FT.CREATE.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
	// NoStopwords indexes every word (STOPWORDS 0).
	NoStopwords bool
}

// Validate reports every problem in the definition at once.
func (idx *IndexDefinition) Validate() error {
	var errs *multierror.Error

	switch {
	case idx.Name == "":
		errs = multierror.Append(errs, fmt.Errorf("index name is required"))
	case !IsValidIdentifier(idx.Name):
		errs = multierror.Append(errs, fmt.Errorf("index name %q contains invalid characters", idx.Name))
	}
	if len(idx.Fields) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("at least one field is required"))
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("field %d: name is required", i))
			continue
		}
		if seen[f.key()] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate field name: %s", f.key()))
		}
		seen[f.key()] = true

		if f.Type == IndexFieldNumeric && f.NoStem {
			errs = multierror.Append(errs, fmt.Errorf("field %s: TEXT options on a NUMERIC field", f.key()))
		}
	}

	return errs.ErrorOrNil()
}

// IndexInfo is the subset of FT.INFO that health checks use.
type IndexInfo struct {
	Name    string
	NumDocs int64
	// Indexing is true while a background scan of existing keys runs.
	Indexing bool
	// HashIndexingFailures counts hashes the engine could not index.
	HashIndexingFailures int64
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
