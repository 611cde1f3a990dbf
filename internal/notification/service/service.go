// Package service implements the notification dispatcher: an append-only
// event log with a read flag and an unread counter.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"drainadopt/internal/notification/metrics"
	"drainadopt/internal/notification/models"
	"drainadopt/internal/notification/outbox"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	txcontext "drainadopt/pkg/platform/tx"
	"drainadopt/pkg/requestcontext"
)

var tracer = otel.Tracer("drainadopt/internal/notification/service")

// Store is the notification persistence the dispatcher needs.
type Store interface {
	Append(ctx context.Context, n *models.Notification) error
	List(ctx context.Context) ([]*models.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	LatestCreatedAt(ctx context.Context) (time.Time, error)
}

// Outbox receives an event for every recorded notification, in the same
// transaction.
type Outbox interface {
	Enqueue(ctx context.Context, e outbox.Entry) error
}

// UnreadCache caches the unread count. Get reports the cache version even on
// a miss; Set stores count only while that version is still current, and
// Invalidate bumps it. Implementations swallow their own errors; a failed Get
// is a miss.
type UnreadCache interface {
	Get(ctx context.Context) (count int64, version int64, ok bool)
	Set(ctx context.Context, version, count int64)
	Invalidate(ctx context.Context)
}

// StoreTx runs a unit of work atomically, joining one already on ctx.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher records notifications and serves the read side.
type Dispatcher struct {
	store   Store
	tx      StoreTx
	outbox  Outbox
	cache   UnreadCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   *monotonicClock
}

type Option func(d *Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithOutbox enables event stream publication through the outbox.
func WithOutbox(o Outbox) Option {
	return func(d *Dispatcher) {
		d.outbox = o
	}
}

// WithUnreadCache enables the read-through unread count cache.
func WithUnreadCache(c UnreadCache) Option {
	return func(d *Dispatcher) {
		d.cache = c
	}
}

// WithClock overrides the time source. Issued timestamps are still clamped
// so they never go backwards.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.clock.now = now
	}
}

// New constructs a Dispatcher.
func New(store Store, tx StoreTx, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store: store,
		tx:    tx,
		clock: &monotonicClock{now: time.Now},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit appends a new unread notification. It joins the transaction on ctx
// when there is one, so the record commits or rolls back with the caller.
func (d *Dispatcher) Emit(ctx context.Context, typ models.Type, drainID id.DrainID, userID *id.UserID, message string) (_ *models.Notification, err error) {
	ctx, span := tracer.Start(ctx, "notification.Emit", trace.WithAttributes(
		attribute.String("type", string(typ)),
		attribute.String("drain_id", drainID.String()),
	))
	defer func() { endSpan(span, err) }()

	if !typ.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown notification type: "+string(typ))
	}

	var recorded *models.Notification
	err = d.tx.RunInTx(ctx, func(ctx context.Context) error {
		n := &models.Notification{
			ID:      id.NewNotificationID(),
			Type:    typ,
			Message: message,
			DrainID: drainID,
			UserID:  userID,
		}
		if err := d.clock.stamp(ctx, d.store, n); err != nil {
			return err
		}
		if d.outbox != nil {
			entry, err := outbox.NewEntry(n)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build outbox entry")
			}
			if err := d.outbox.Enqueue(ctx, entry); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to enqueue notification event")
			}
		}
		txcontext.AfterCommit(ctx, d.invalidate)
		recorded = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.metrics.IncrementEmitted(string(typ))
	if d.logger != nil {
		d.logger.InfoContext(ctx, "notification recorded",
			"notification_id", recorded.ID,
			"type", typ,
			"drain_id", drainID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return recorded, nil
}

// ListAll returns every notification, newest first.
func (d *Dispatcher) ListAll(ctx context.Context) ([]*models.Notification, error) {
	list, err := d.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	if list == nil {
		list = []*models.Notification{}
	}
	return list, nil
}

// CountUnread returns the number of unread notifications, served from the
// cache when it holds a value. A count read from the store is cached under
// the version seen before the read, so a write committed in between leaves
// the cache empty.
func (d *Dispatcher) CountUnread(ctx context.Context) (int64, error) {
	var version int64
	if d.cache != nil {
		count, v, ok := d.cache.Get(ctx)
		if ok {
			return count, nil
		}
		version = v
	}
	count, err := d.store.CountUnread(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count unread notifications")
	}
	if d.cache != nil {
		d.cache.Set(ctx, version, count)
	}
	return count, nil
}

// MarkRead sets Read on one notification. Marking a read notification again
// is a no-op.
func (d *Dispatcher) MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	var updated *models.Notification
	err := d.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := d.store.MarkRead(ctx, notificationID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "notification not found: "+notificationID.String())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
		}
		txcontext.AfterCommit(ctx, d.invalidate)
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkAllRead sets Read on every notification. It always succeeds when the
// store is reachable, including when nothing was unread.
func (d *Dispatcher) MarkAllRead(ctx context.Context) error {
	var changed int64
	err := d.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := d.store.MarkAllRead(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notifications read")
		}
		changed = n
		txcontext.AfterCommit(ctx, d.invalidate)
		return nil
	})
	if err != nil {
		return err
	}
	if d.logger != nil {
		d.logger.InfoContext(ctx, "notifications marked read",
			"count", changed,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return nil
}

func (d *Dispatcher) invalidate(ctx context.Context) {
	if d.cache != nil {
		d.cache.Invalidate(context.WithoutCancel(ctx))
	}
}

// monotonicClock hands out timestamps that never decrease, seeded from the
// newest stored notification. The lock is held across the append so store
// insertion order matches timestamp order. The clock is per process; replicas
// sharing one database do not share it.
type monotonicClock struct {
	mu     sync.Mutex
	now    func() time.Time
	last   time.Time
	seeded bool
}

// stamp assigns n.CreatedAt and appends n while holding the clock.
func (c *monotonicClock) stamp(ctx context.Context, store Store, n *models.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seeded {
		latest, err := store.LatestCreatedAt(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read notification clock")
		}
		c.last = latest
		c.seeded = true
	}
	t := c.now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	n.CreatedAt = t
	if err := store.Append(ctx, n); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record notification")
	}
	c.last = t
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
