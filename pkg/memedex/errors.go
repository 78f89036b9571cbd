package memedex

import (
	"github.com/kailas-cloud/memedex/internal/domain"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidRecord    = domain.ErrInvalidRecord
	ErrQuerySyntax      = domain.ErrQuerySyntax
	ErrUnsupportedField = domain.ErrUnsupportedField
	ErrBackendExecution = domain.ErrBackendExecution
	ErrIndexConsistency = domain.ErrIndexConsistency
	ErrInvalidLimit     = domain.ErrInvalidLimit
)

// SyntaxError locates a malformed query. Use errors.As() to extract it.
type SyntaxError = query.SyntaxError

// UnsupportedFieldError names a field outside the searchable set.
type UnsupportedFieldError = query.UnsupportedFieldError
