package repository

import (
	"errors"
	"strings"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"gorm.io/gorm"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// ErrorClassifier provides methods to classify database errors.
// It understands both PostgreSQL (SQLSTATE codes and messages) and SQLite messages.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	if c.IsDuplicateKeyError(err) {
		return DuplicateKeyError
	}
	if c.IsLockError(err) {
		return LockError
	}
	if c.IsTransientError(err) {
		return TransientError
	}
	if c.IsConnectionError(err) {
		return ConnectionError
	}
	if c.IsConstraintError(err) {
		return ConstraintError
	}

	return ""
}

func containsAny(err error, needles ...string) bool {
	msg := strings.ToLower(err.Error())
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// IsDuplicateKeyError checks if the error is a unique index violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		containsAny(err, "duplicate key", "unique constraint", "duplicate entry", "sqlstate 23505")
}

// IsCheckViolation checks if the error is a CHECK constraint violation
func (c *ErrorClassifier) IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrCheckConstraintViolated) ||
		containsAny(err, "check constraint", "sqlstate 23514")
}

// IsTransientError checks if an error is transient
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err,
		"connection reset",
		"connection refused",
		"timeout",
		"eof",
		"server closed",
		"broken pipe",
	)
}

// IsLockError checks if the error is due to locking or a serialization conflict
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err,
		"deadlock",
		"lock wait timeout",
		"could not serialize access",
		"serialization failure",
		"sqlstate 40001",
		"sqlstate 40p01",
		"database is locked",
		"database table is locked",
	)
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err, "connection", "dial", "network") || c.IsTransientError(err)
}

// IsConstraintError checks if the error is related to constraint violations
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err, "constraint", "violates", "foreign key", "not null") ||
		c.IsDuplicateKeyError(err)
}

// storeError translates a driver error that no caller-specific rule handled.
// Serialization and deadlock aborts become ErrConcurrentUpdate, the rest ErrStore.
func (c *ErrorClassifier) storeError(operation string, err error) error {
	if c.IsLockError(err) {
		return errs.ErrConcurrentUpdate
	}
	return errs.NewStoreError(operation, err)
}
