package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}
type hooksKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Hooks collects callbacks that must only run once the surrounding
// transaction has committed.
type Hooks struct {
	mu    sync.Mutex
	funcs []func(context.Context)
}

// WithHooks attaches a fresh hook list to ctx. Transaction runners call this
// before invoking the unit of work and Run after commit.
func WithHooks(ctx context.Context) (context.Context, *Hooks) {
	h := &Hooks{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

// AfterCommit registers fn to run after commit. Outside a transaction fn runs
// immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	h, ok := ctx.Value(hooksKey{}).(*Hooks)
	if !ok || h == nil {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.funcs = append(h.funcs, fn)
	h.mu.Unlock()
}

// Run executes registered hooks in registration order. Hooks are discarded
// when the transaction rolls back, so Run is only called on success.
func (h *Hooks) Run(ctx context.Context) {
	h.mu.Lock()
	funcs := h.funcs
	h.funcs = nil
	h.mu.Unlock()
	for _, fn := range funcs {
		fn(ctx)
	}
}
