package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/oyvinh/dbhandle/internal/constants"
)

// Sentinel errors classifying database failures. Callers test for them with
// errors.Is; the underlying driver error is carried in QueryError.Cause.
var (
	// ErrQueryFailed is the classification for failures the library does
	// not recognize more specifically.
	ErrQueryFailed = errors.New("query failed")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrForeignKey indicates a foreign key constraint violation.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrNullViolation indicates a NULL written to a NOT NULL column.
	ErrNullViolation = errors.New("null value in non-null column")

	// ErrUnknownTable indicates a statement referencing a missing table.
	ErrUnknownTable = errors.New("unknown table")

	// ErrEmptyConditions indicates an update or delete called without any
	// conditions. The statement is rejected before reaching the database.
	ErrEmptyConditions = errors.New("empty conditions")

	// ErrInvalidIdentifier indicates a table or column name that failed the
	// identifier allow-list.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNoFields indicates an insert or update called with no fields.
	ErrNoFields = errors.New("no fields")
)

// QueryError represents a failed database operation with its classification
// and context.
type QueryError struct {
	Err     error  // classification sentinel
	Op      string // operation that failed: query, exec, insert, update, delete
	Query   string // SQL text, when one was built
	Message string // human-readable description
	Cause   error  // underlying driver error, if any
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the classification sentinel so errors.Is matches it.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// ParseError classifies a driver-level error into a QueryError. MySQL
// server error numbers and PostgreSQL SQLSTATE codes are mapped onto the
// sentinel errors; anything else is classified as ErrQueryFailed.
func ParseError(err error) *QueryError {
	// If it's already a QueryError, return it
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}

	// Check for MySQL-specific errors
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case constants.MySQLErrDuplicateEntry:
			return &QueryError{Err: ErrDuplicate, Cause: err}
		case constants.MySQLErrNoReferencedRow:
			return &QueryError{Err: ErrForeignKey, Cause: err}
		case constants.MySQLErrBadNullColumn:
			return &QueryError{Err: ErrNullViolation, Cause: err}
		case constants.MySQLErrNoSuchTable:
			return &QueryError{Err: ErrUnknownTable, Cause: err}
		}
	}

	// Check for PostgreSQL-specific errors
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constants.PGErrUniqueViolation:
			return &QueryError{Err: ErrDuplicate, Cause: err}
		case constants.PGErrForeignKeyViolation:
			return &QueryError{Err: ErrForeignKey, Cause: err}
		case constants.PGErrNotNullViolation:
			return &QueryError{Err: ErrNullViolation, Cause: err}
		case constants.PGErrUndefinedTable:
			return &QueryError{Err: ErrUnknownTable, Cause: err}
		}
	}

	return &QueryError{Err: ErrQueryFailed, Cause: err}
}

// wrapError classifies err and attaches the operation and statement text.
func wrapError(op, query string, err error) *QueryError {
	qe := ParseError(err)
	qe.Op = op
	qe.Query = query
	return qe
}

// IsDuplicateError checks if an error is a unique constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsForeignKeyError checks if an error is a foreign key violation.
func IsForeignKeyError(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// IsUnknownTableError checks if an error references a missing table.
func IsUnknownTableError(err error) bool {
	return errors.Is(err, ErrUnknownTable)
}
