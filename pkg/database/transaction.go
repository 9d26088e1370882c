package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is the unit of work executed inside a transaction.
type TxFunc func(pgx.Tx) error

// AcquireTimeout bounds how long Begin may wait for a pooled connection.
// Zero disables the bound. Set once at startup from config.
var AcquireTimeout time.Duration

func beginContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if AcquireTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, AcquireTimeout)
}

// WithTransaction runs fn inside a single transaction.
// Rolls back on error or panic, commits otherwise. Pool exhaustion fails
// with a context deadline instead of blocking the worker forever.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	beginCtx, cancel := beginContext(ctx)
	tx, err := pool.Begin(beginCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
