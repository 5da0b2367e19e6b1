package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx runs fn inside a single REPEATABLE READ transaction, committing on
// a nil return and rolling back otherwise. Every use-case that mutates more
// than one aggregate (rental<->vehicle, rental<->ledger, maintenance<->vehicle,
// payment<->invoice<->ledger) goes through this one entry point rather than
// issuing separate service calls against separate transactions.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
