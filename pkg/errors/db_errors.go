// Package errors provides database error classification and handling utilities.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DatabaseErrorType represents the type of database error.
type DatabaseErrorType int

const (
	// ErrorTypeUnknown represents an unknown database error.
	ErrorTypeUnknown DatabaseErrorType = iota
	// ErrorTypeDuplicateKey represents a unique constraint violation.
	ErrorTypeDuplicateKey
	// ErrorTypeConstraintViolation represents a foreign key or check constraint violation.
	ErrorTypeConstraintViolation
	// ErrorTypeInvalidJSON represents an invalid JSON data error (MySQL 3140-3143).
	ErrorTypeInvalidJSON
	// ErrorTypeDataTooLong represents a value that does not fit its column.
	ErrorTypeDataTooLong
	// ErrorTypeNotFound represents a record not found error.
	ErrorTypeNotFound
	// ErrorTypeDeadlock represents a deadlock or serialization failure.
	ErrorTypeDeadlock
	// ErrorTypeConnectionError represents a database connection error.
	ErrorTypeConnectionError
	// ErrorTypeInvalidValue represents an invalid or null value error.
	ErrorTypeInvalidValue
)

var typeKinds = map[DatabaseErrorType]string{
	ErrorTypeUnknown:             "unknown",
	ErrorTypeDuplicateKey:        "duplicate_key",
	ErrorTypeConstraintViolation: "constraint_violation",
	ErrorTypeInvalidJSON:         "invalid_json",
	ErrorTypeDataTooLong:         "data_too_long",
	ErrorTypeNotFound:            "not_found",
	ErrorTypeDeadlock:            "deadlock",
	ErrorTypeConnectionError:     "connection",
	ErrorTypeInvalidValue:        "invalid_value",
}

// String returns the short kind name used in log fields.
func (t DatabaseErrorType) String() string {
	if k, ok := typeKinds[t]; ok {
		return k
	}
	return "unknown"
}

// DatabaseError wraps a database error with classification information.
type DatabaseError struct {
	Type         DatabaseErrorType
	OriginalErr  error
	MySQLErrCode uint16 // MySQL error number, e.g. 1062
	SQLState     string // PostgreSQL SQLSTATE, e.g. 23505
	Message      string
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	switch {
	case e.MySQLErrCode > 0:
		return fmt.Sprintf("%s (MySQL error %d): %v", e.Message, e.MySQLErrCode, e.OriginalErr)
	case e.SQLState != "":
		return fmt.Sprintf("%s (SQLSTATE %s): %v", e.Message, e.SQLState, e.OriginalErr)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
}

// Unwrap returns the underlying error for errors.Is and errors.As compatibility.
func (e *DatabaseError) Unwrap() error {
	return e.OriginalErr
}

// Kind returns the classification as a short string.
func (e *DatabaseError) Kind() string {
	return e.Type.String()
}

// ClassifyDBError classifies a database error into a specific error type.
//
// It understands GORM sentinel errors (including the ones produced by
// TranslateError), MySQL driver errors, PostgreSQL errors reported by pgx,
// SQLite constraint messages and common connection failures.
//
// Example:
//
//	if err := repo.CreateEventDonor(ctx, ed); err != nil {
//	    if errors.ClassifyDBError(err).Type == errors.ErrorTypeDuplicateKey {
//	        // donor already invited
//	    }
//	}
func ClassifyDBError(err error) *DatabaseError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &DatabaseError{Type: ErrorTypeNotFound, OriginalErr: err, Message: "record not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &DatabaseError{Type: ErrorTypeDuplicateKey, OriginalErr: err, Message: "duplicate key constraint violation"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &DatabaseError{Type: ErrorTypeConstraintViolation, OriginalErr: err, Message: "foreign key constraint violation"}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &DatabaseError{Type: ErrorTypeConstraintViolation, OriginalErr: err, Message: "check constraint violation"}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return classifyMySQLError(mysqlErr)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgresError(pgErr)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") {
		return &DatabaseError{Type: ErrorTypeDuplicateKey, OriginalErr: err, Message: "duplicate key constraint violation"}
	}
	if strings.Contains(errMsg, "foreign key constraint failed") {
		return &DatabaseError{Type: ErrorTypeConstraintViolation, OriginalErr: err, Message: "foreign key constraint violation"}
	}
	if strings.Contains(errMsg, "not null constraint failed") {
		return &DatabaseError{Type: ErrorTypeInvalidValue, OriginalErr: err, Message: "column cannot be null"}
	}

	if isConnectionError(errMsg) {
		return &DatabaseError{Type: ErrorTypeConnectionError, OriginalErr: err, Message: "database connection error"}
	}

	return &DatabaseError{Type: ErrorTypeUnknown, OriginalErr: err, Message: "unknown database error"}
}

func classifyMySQLError(err *mysql.MySQLError) *DatabaseError {
	dbErr := &DatabaseError{OriginalErr: err, MySQLErrCode: err.Number}

	switch err.Number {
	case 1062: // ER_DUP_ENTRY
		dbErr.Type, dbErr.Message = ErrorTypeDuplicateKey, "duplicate key constraint violation"
	case 3140, 3141, 3142, 3143: // JSON text/path/size/type
		dbErr.Type, dbErr.Message = ErrorTypeInvalidJSON, "invalid JSON data"
	case 1406: // ER_DATA_TOO_LONG
		dbErr.Type, dbErr.Message = ErrorTypeDataTooLong, "data too long for column"
	case 1452: // ER_NO_REFERENCED_ROW_2
		dbErr.Type, dbErr.Message = ErrorTypeConstraintViolation, "foreign key constraint violation"
	case 1451: // ER_ROW_IS_REFERENCED_2
		dbErr.Type, dbErr.Message = ErrorTypeConstraintViolation, "cannot delete/update record due to foreign key constraint"
	case 1213: // ER_LOCK_DEADLOCK
		dbErr.Type, dbErr.Message = ErrorTypeDeadlock, "deadlock detected"
	case 1048: // ER_BAD_NULL_ERROR
		dbErr.Type, dbErr.Message = ErrorTypeInvalidValue, "column cannot be null"
	case 1265, 1366: // ER_WARN_DATA_TRUNCATED, ER_TRUNCATED_WRONG_VALUE
		dbErr.Type, dbErr.Message = ErrorTypeInvalidValue, "invalid or truncated value"
	default:
		dbErr.Type, dbErr.Message = ErrorTypeUnknown, "MySQL error"
	}
	return dbErr
}

func classifyPostgresError(err *pgconn.PgError) *DatabaseError {
	dbErr := &DatabaseError{OriginalErr: err, SQLState: err.Code}

	switch {
	case err.Code == "23505": // unique_violation
		dbErr.Type, dbErr.Message = ErrorTypeDuplicateKey, "duplicate key constraint violation"
	case err.Code == "23503": // foreign_key_violation
		dbErr.Type, dbErr.Message = ErrorTypeConstraintViolation, "foreign key constraint violation"
	case err.Code == "23514": // check_violation
		dbErr.Type, dbErr.Message = ErrorTypeConstraintViolation, "check constraint violation"
	case err.Code == "23502": // not_null_violation
		dbErr.Type, dbErr.Message = ErrorTypeInvalidValue, "column cannot be null"
	case err.Code == "22001": // string_data_right_truncation
		dbErr.Type, dbErr.Message = ErrorTypeDataTooLong, "data too long for column"
	case err.Code == "22P02": // invalid_text_representation
		dbErr.Type, dbErr.Message = ErrorTypeInvalidValue, "invalid or truncated value"
	case err.Code == "40P01", err.Code == "40001": // deadlock_detected, serialization_failure
		dbErr.Type, dbErr.Message = ErrorTypeDeadlock, "deadlock detected"
	case strings.HasPrefix(err.Code, "08"): // connection_exception class
		dbErr.Type, dbErr.Message = ErrorTypeConnectionError, "database connection error"
	default:
		dbErr.Type, dbErr.Message = ErrorTypeUnknown, "PostgreSQL error"
	}
	return dbErr
}

var connectionKeywords = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"timeout",
	"connection lost",
	"can't connect",
	"dial tcp",
	"database is locked",
}

// isConnectionError expects a lowercased message.
func isConnectionError(errMsg string) bool {
	for _, keyword := range connectionKeywords {
		if strings.Contains(errMsg, keyword) {
			return true
		}
	}
	return false
}

// IsDuplicateKeyError checks if the error is a duplicate key constraint violation.
func IsDuplicateKeyError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeDuplicateKey
}

// IsNotFoundError checks if the error is a record not found error.
func IsNotFoundError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeNotFound
}

// IsConstraintViolationError checks if the error is a constraint violation.
func IsConstraintViolationError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeConstraintViolation
}

// IsConnectionError checks if the error is a connectivity failure.
func IsConnectionError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeConnectionError
}
