package persistence

import (
	"context"
)

// UnitOfWork scopes repositories to one store transaction carried by the context.
// Repositories obtained with a context that holds no transaction run against the store directly.
type UnitOfWork interface {
	// Begin opens a transaction and returns the context that carries it
	Begin(ctx context.Context) (context.Context, error)

	// Commit makes the writes of the context's transaction durable
	Commit(ctx context.Context) error

	// Rollback discards the context's transaction, a finished transaction is ignored
	Rollback(ctx context.Context) error

	GetUserRepository(ctx context.Context) UserRepository
	GetProfileRepository(ctx context.Context) ProfileRepository
	GetClassRepository(ctx context.Context) ClassRepository
	GetEnrollmentRepository(ctx context.Context) EnrollmentRepository
}
