// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into user-friendly messages (e.g., converting
// a "foreign key violation" into a "Bad Request" error)
package sqlerr

import "fmt"

// Code is a driver-independent category for a database error.
type Code int

const (
	Other Code = iota
	ForeignKeyViolation
	UniqueViolation
	NotNullViolation
	CheckViolation
	InvalidValue
)

func (c Code) String() string {
	switch c {
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case UniqueViolation:
		return "unique_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	case InvalidValue:
		return "invalid_value"
	default:
		return "other"
	}
}

// Severity mirrors the severity levels Postgres attaches to a message.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// Postgres SQLSTATE codes we care about.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation       = "23503"
	pgUniqueViolation           = "23505"
	pgNotNullViolation          = "23502"
	pgCheckViolation            = "23514"
	pgInvalidDatetimeFormat     = "22007"
	pgDatetimeFieldOverflow     = "22008"
	pgInvalidTextRepresentation = "22P02"
	pgNumericValueOutOfRange    = "22003"
)

// MapCode maps a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case pgForeignKeyViolation:
		return ForeignKeyViolation
	case pgUniqueViolation:
		return UniqueViolation
	case pgNotNullViolation:
		return NotNullViolation
	case pgCheckViolation:
		return CheckViolation
	case pgInvalidDatetimeFormat, pgDatetimeFieldOverflow, pgInvalidTextRepresentation, pgNumericValueOutOfRange:
		return InvalidValue
	default:
		return Other
	}
}

// MapSeverity maps the severity string reported by Postgres into a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityUnknown
	}
}

// Error is the normalized form of a database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s): %s", e.Code, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
