package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetTx retrieves transaction from context
func GetTx(ctx context.Context) (*sql.Tx, error) {
	tx, ok := ctx.Value(ContextKeyTransaction).(*sql.Tx)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}
	return tx, nil
}

// WithTx runs fn inside a transaction carried by the context passed to it.
// Nested calls reuse the outer transaction.
func (d *Data) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, err := GetTx(ctx); err == nil {
		return fn(ctx)
	}

	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()
	if closed {
		return errors.New("data layer is closed")
	}
	if d.DB == nil {
		return errors.New("database connection is nil")
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, ContextKeyTransaction, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("tx err: %w, rollback err: %v", err, rbErr)
		}
		return err
	}

	committed = true
	return tx.Commit()
}
