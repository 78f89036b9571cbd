package domain

import "errors"

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord signals a record or patch that fails validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrQuerySyntax signals a malformed search query. The user can fix it.
	ErrQuerySyntax = errors.New("query syntax error")
	// ErrUnsupportedField signals field scoping to a name outside the indexed set.
	ErrUnsupportedField = errors.New("unsupported field")
	// ErrBackendExecution signals a full-text backend failure on a well-formed query.
	ErrBackendExecution = errors.New("search backend error")
	// ErrIndexConsistency signals that the index could not be kept in sync with a mutation.
	ErrIndexConsistency = errors.New("index consistency error")
	// ErrInvalidLimit signals a non-positive or otherwise unusable result limit.
	ErrInvalidLimit = errors.New("invalid limit")
)
