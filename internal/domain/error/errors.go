package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation         = 4000
	CodeInsufficientPoints = 4001
	CodeAlreadyEnrolled    = 4002
	CodeInvalidClassID     = 4003
	CodeUnauthenticated    = 4010
	CodeBadCredential      = 4011
	CodeForbidden          = 4030
	CodeNotFound           = 4040
	CodeClassNotFound      = 4041
	CodeProfileNotFound    = 4042
	CodeUserNotFound       = 4043
	CodeDuplicateEmail     = 4090
	CodeConcurrentUpdate   = 4091

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeStore          = 5001
)

// Base error types
var (
	// ErrValidation is returned when required input is missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrInvalidClassID is returned when a class identifier cannot be parsed
	ErrInvalidClassID = errors.New("class ID must be a positive integer")

	// ErrUnauthenticated is returned when the request carries no resolvable identity
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when the identity lacks the required role
	ErrForbidden = errors.New("access denied")

	// ErrUnknownUser is returned when no user matches the submitted email
	ErrUnknownUser = errors.New("email is not registered")

	// ErrBadCredential is returned when the password does not match the stored hash
	ErrBadCredential = errors.New("incorrect password")

	// ErrMissingEmail is returned when an external identity provider supplies no email
	ErrMissingEmail = errors.New("identity provider returned no email")

	// ErrDuplicateEmail is returned when registering an email that already exists
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrClassNotFound is returned when the requested class doesn't exist
	ErrClassNotFound = errors.New("class not found")

	// ErrProfileNotFound is returned when the user has no points profile
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrAlreadyEnrolled is returned when the user is already enrolled in the class
	ErrAlreadyEnrolled = errors.New("already enrolled in this class")

	// ErrInsufficientPoints is returned when the points balance is lower than the class cost
	ErrInsufficientPoints = errors.New("not enough points to enroll in this class")

	// ErrConcurrentUpdate is returned when the store aborts a transaction because of a conflicting one
	ErrConcurrentUpdate = errors.New("operation conflicted with a concurrent update")

	// ErrStore is returned for any failure surfaced by the data store
	ErrStore = errors.New("data store failure")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientPoints):
		return CodeInsufficientPoints
	case errors.Is(err, ErrAlreadyEnrolled):
		return CodeAlreadyEnrolled
	case errors.Is(err, ErrInvalidClassID):
		return CodeInvalidClassID
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrMissingEmail):
		return CodeUnauthenticated
	case errors.Is(err, ErrUnknownUser), errors.Is(err, ErrBadCredential):
		return CodeBadCredential
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrClassNotFound):
		return CodeClassNotFound
	case errors.Is(err, ErrProfileNotFound):
		return CodeProfileNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	case errors.Is(err, ErrStore):
		return CodeStore
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps a domain error to the HTTP status the API answers with.
// Enrollment conflicts answer 400, store conflicts 409.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidClassID),
		errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrUnknownUser),
		errors.Is(err, ErrBadCredential),
		errors.Is(err, ErrMissingEmail):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicErrors are answered with their own message, never with the wrapping context
var publicErrors = []error{
	ErrInsufficientPoints,
	ErrAlreadyEnrolled,
	ErrInvalidClassID,
	ErrUnauthenticated,
	ErrMissingEmail,
	ErrUnknownUser,
	ErrBadCredential,
	ErrForbidden,
	ErrClassNotFound,
	ErrProfileNotFound,
	ErrUserNotFound,
	ErrNotFound,
	ErrDuplicateEmail,
	ErrConcurrentUpdate,
}

// PublicMessage returns the message safe to show to API callers.
// Known errors answer with the sentinel text, validation errors keep their reason,
// store and unknown failures collapse to a generic text.
func PublicMessage(err error) string {
	if HTTPStatus(err) >= http.StatusInternalServerError {
		return "Internal server error"
	}
	for _, public := range publicErrors {
		if errors.Is(err, public) {
			return public.Error()
		}
	}
	msg := err.Error()
	if i := strings.Index(msg, ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return ErrValidation.Error()
}

// InsufficientPointsError provides detailed information for a rejected enrollment
type InsufficientPointsError struct {
	UserID    uint64
	ClassID   uint64
	Required  int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("not enough points to enroll user %d in class %d: required %d, available %d",
		e.UserID, e.ClassID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientPoints
func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientPointsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_points",
		"user_id":    e.UserID,
		"class_id":   e.ClassID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientPoints,
	}
}

// NewInsufficientPointsError creates a new detailed insufficient points error
func NewInsufficientPointsError(userID, classID uint64, required, available int64) error {
	return &InsufficientPointsError{
		UserID:    userID,
		ClassID:   classID,
		Required:  required,
		Available: available,
	}
}

// EnrollmentError wraps a failure of the enrollment workflow with its step
type EnrollmentError struct {
	UserID  uint64
	ClassID uint64
	Step    string
	Err     error
}

// Error implements the error interface for EnrollmentError
func (e *EnrollmentError) Error() string {
	return fmt.Sprintf("enrollment of user %d in class %d failed at %s: %v",
		e.UserID, e.ClassID, e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *EnrollmentError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *EnrollmentError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "enrollment_error",
		"user_id":    e.UserID,
		"class_id":   e.ClassID,
		"step":       e.Step,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewEnrollmentError creates a detailed enrollment error
func NewEnrollmentError(userID, classID uint64, step string, err error) error {
	return &EnrollmentError{
		UserID:  userID,
		ClassID: classID,
		Step:    step,
		Err:     err,
	}
}

// StoreError wraps a raw data store failure so callers can match ErrStore
// while logs keep the driver message.
type StoreError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Operation, e.Err)
}

// Is checks if the target error is an ErrStore
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// Unwrap returns the underlying driver error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new store error for the given operation
func NewStoreError(operation string, err error) error {
	return &StoreError{Operation: operation, Err: err}
}

// Validationf builds a validation error with a human-readable reason
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// LogFielder is implemented by errors that carry structured logging fields
type LogFielder interface {
	LogFields() map[string]any
}

// LogFieldsOf returns structured fields for err, falling back to its message
func LogFieldsOf(err error) map[string]any {
	var lf LogFielder
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrProfileNotFound)
}

// IsBusinessRuleError reports whether err is an expected 4xx outcome rather than a fault
func IsBusinessRuleError(err error) bool {
	return HTTPStatus(err) < http.StatusInternalServerError
}
