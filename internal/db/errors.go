package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	// ErrTxAborted means EXEC returned nil: a watched key changed or the
	// server discarded the transaction.
	ErrTxAborted = errors.New("db: transaction aborted")
)

// Redis commands, used as Error.Op.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpIncr        = "INCR"
	OpMulti       = "MULTI"
)

// SQLite steps, used as Error.Op.
const (
	OpBegin   = "BEGIN"
	OpCommit  = "COMMIT"
	OpQuery   = "QUERY"
	OpExecSQL = "EXEC SQL"
	OpMigrate = "MIGRATE"
)

// Error records which driver operation failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// IsOp reports whether err came from the driver operation op.
func IsOp(err error, op string) bool {
	var de *Error
	return errors.As(err, &de) && de.Op == op
}
