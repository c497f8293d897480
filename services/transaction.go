package services

import (
	"context"

	"github.com/healthbridge/backend/repositories"
)

// InTransactionResult runs fn through txMgr.InTransaction and hands back the
// value fn produced. The value is discarded when the transaction fails.
func InTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) (T, error)) (T, error) {
	var result T
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		v, err := fn(txCtx, tx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
