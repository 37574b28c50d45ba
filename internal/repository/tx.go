package repository

import (
	"context"
	"errors"
	"fmt"
)

// WithinTx executes fn within a transaction.
// If fn returns an error or panics, the transaction is rolled back.
// Otherwise, the transaction is committed and the affected row count returned.
func WithinTx(ctx context.Context, store Store, fn func(uow UnitOfWork) error) (int64, error) {
	uow, err := store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			return 0, errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return 0, err
	}

	affected, err := uow.Commit(ctx)
	if err != nil {
		_ = uow.Rollback(ctx)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return affected, nil
}
