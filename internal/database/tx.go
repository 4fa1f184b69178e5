package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"
)

type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	ReadOnly       bool
	MaxRetries     int
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		MaxRetries:     3,
	}
}

// TxFunc runs inside a transaction. Returning an error rolls it back.
type TxFunc func(*sql.Tx) error

func WithTransaction(ctx context.Context, db *sql.DB, opts TxOptions, fn TxFunc) error {
	commitErr, err := runTx(ctx, db, opts, fn)
	if err != nil {
		return err
	}
	if commitErr != nil {
		return fmt.Errorf("commit transaction: %w", commitErr)
	}
	return nil
}

// WithRetry re-runs fn on serialization failures, deadlocks and lock
// timeouts, with jittered exponential backoff starting at 50ms.
func WithRetry(ctx context.Context, db *sql.DB, opts TxOptions, fn TxFunc) error {
	backoff := 50 * time.Millisecond

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		commitErr, err := runTx(ctx, db, opts, fn)
		if err == nil && commitErr == nil {
			return nil
		}

		failure := err
		if failure == nil {
			failure = fmt.Errorf("commit transaction: %w", commitErr)
		}

		if !IsRetryable(failure) {
			return failure
		}
		if attempt >= opts.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", opts.MaxRetries, failure)
		}

		if err := sleepWithJitter(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
}

// runTx reports fn/begin/rollback failures as err and commit failures as
// commitErr so callers can label them differently.
func runTx(ctx context.Context, db *sql.DB, opts TxOptions, fn TxFunc) (commitErr, err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
		ReadOnly:  opts.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return nil, err
	}

	return tx.Commit(), nil
}

func sleepWithJitter(ctx context.Context, base time.Duration) error {
	jitter := time.Duration(rand.Int63n(int64(base/4) + 1))

	select {
	case <-time.After(base + jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
