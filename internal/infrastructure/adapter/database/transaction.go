package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// ErrNoTransaction is returned when Commit or Rollback find no transaction in the context
var ErrNoTransaction = errors.New("no transaction found in context")

// ErrNestedTransaction is returned by Begin on a context that already carries a transaction
var ErrNestedTransaction = errors.New("transaction already in progress")

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	errorMapper  *ErrorMapper
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		errorMapper:  NewErrorMapper(),
	}
}

// Begin starts a new database transaction.
// PostgreSQL transactions run SERIALIZABLE; SQLite already serializes writers.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return ctx, ErrNestedTransaction
	}

	var opts *sql.TxOptions
	if u.db.Dialector.Name() == DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	u.logger.Debug("Beginning database transaction", map[string]any{
		"dialect":      u.db.Dialector.Name(),
		"serializable": opts != nil,
	})

	var tx *gorm.DB
	if opts != nil {
		tx = u.db.WithContext(ctx).Begin(opts)
	} else {
		tx = u.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoTransaction
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return u.errorMapper.MapError(err, "commit transaction")
	}

	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoTransaction
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error

	// A transaction aborted by the server is already gone
	if err != nil && (errors.Is(err, sql.ErrTxDone) ||
		strings.Contains(err.Error(), "already been committed or rolled back")) {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{
			"error": err.Error(),
		})
		return u.errorMapper.MapError(err, "rollback transaction")
	}

	return nil
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetProfileRepository returns a profile repository in the current transaction
func (u *UnitOfWork) GetProfileRepository(ctx context.Context) persistence.ProfileRepository {
	return repository.NewProfileRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetClassRepository returns a class repository in the current transaction
func (u *UnitOfWork) GetClassRepository(ctx context.Context) persistence.ClassRepository {
	return repository.NewClassRepository(u.getDbFromContext(ctx), u.logger)
}

// GetEnrollmentRepository returns an enrollment repository in the current transaction
func (u *UnitOfWork) GetEnrollmentRepository(ctx context.Context) persistence.EnrollmentRepository {
	return repository.NewEnrollmentRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext retrieves the database instance from context
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
