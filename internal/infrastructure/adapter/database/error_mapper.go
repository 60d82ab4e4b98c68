package database

import (
	"context"
	"errors"

	domainErr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// ErrorMapper maps transaction-level database errors to domain errors.
// Row-level errors are mapped by each repository.
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	// Already a domain error
	case errors.Is(err, domainErr.ErrStore), errors.Is(err, domainErr.ErrConcurrentUpdate):
		return err

	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainErr.ErrNotFound

	// Serialization failures and deadlocks abort the whole transaction
	case m.classifier.IsLockError(err):
		return domainErr.ErrConcurrentUpdate

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domainErr.NewStoreError(operation+" timed out", err)

	default:
		return domainErr.NewStoreError(operation, err)
	}
}
