package tx

import (
	"context"
	"sync"
	"time"

	dErrors "drainadopt/pkg/domain-errors"
)

// DefaultTimeout bounds a unit of work whose context carries no deadline.
const DefaultTimeout = 5 * time.Second

type memoryKey struct{}

// MemoryRunner serializes units of work over the in-memory stores with a
// single process-wide mutex. Nested calls join the outer unit of work.
type MemoryRunner struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewMemoryRunner returns a runner with the default timeout.
func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{timeout: DefaultTimeout}
}

// RunInTx runs fn while holding the runner's lock. After-commit hooks
// registered by fn run once fn returns nil.
func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, joined := ctx.Value(memoryKey{}).(*MemoryRunner); joined {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	ctx, cancel := WithDefaultTimeout(ctx, r.timeout)
	defer cancel()

	txCtx, hooks := WithHooks(context.WithValue(ctx, memoryKey{}, r))
	if err := r.locked(ctx, func() error { return fn(txCtx) }); err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}

// locked runs fn under the runner's mutex. The deferred unlock frees the
// lock even when fn panics.
func (r *MemoryRunner) locked(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn()
}

// WithDefaultTimeout applies timeout unless ctx already has a deadline.
func WithDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
