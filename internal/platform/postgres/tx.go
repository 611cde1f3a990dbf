package postgres

import (
	"context"
	"database/sql"
	"time"

	dErrors "drainadopt/pkg/domain-errors"
	txcontext "drainadopt/pkg/platform/tx"
)

// TxRunner runs units of work in a Postgres transaction carried on the
// context. Nested calls join the outer transaction.
type TxRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTxRunner returns a runner; a zero timeout selects the default.
func NewTxRunner(db *sql.DB, timeout time.Duration) *TxRunner {
	return &TxRunner{db: db, timeout: timeout}
}

// RunInTx begins a transaction, runs fn and commits. After-commit hooks run
// only once the commit succeeded.
func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	ctx, cancel := txcontext.WithDefaultTimeout(ctx, t.timeout)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txCtx, hooks := txcontext.WithHooks(txcontext.WithTx(ctx, tx))
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}
