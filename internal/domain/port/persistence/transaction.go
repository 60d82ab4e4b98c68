package persistence

import (
	"context"
	"fmt"
)

// WithinTransaction runs fn inside a unit of work, committing on success and rolling back
// when fn returns an error or panics
func WithinTransaction(ctx context.Context, uow UnitOfWork, fn func(txCtx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return uow.Commit(txCtx)
}
