// Package service implements the adoption engine: the only code path that
// links a user to a drain, and the role-gated drain maintenance operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"drainadopt/internal/adoption/metrics"
	"drainadopt/internal/adoption/models"
	"drainadopt/internal/authz"
	identity "drainadopt/internal/identity/models"
	notification "drainadopt/internal/notification/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

var tracer = otel.Tracer("drainadopt/internal/adoption/service")

// DrainStore is the drain persistence the engine needs.
type DrainStore interface {
	Create(ctx context.Context, d *models.Drain) error
	FindByID(ctx context.Context, drainID id.DrainID) (*models.Drain, error)
	FindByIDForUpdate(ctx context.Context, drainID id.DrainID) (*models.Drain, error)
	List(ctx context.Context) ([]*models.Drain, error)
	UpdateDetails(ctx context.Context, d *models.Drain) error
	Delete(ctx context.Context, drainID id.DrainID) error
	SetAdopter(ctx context.Context, drainID id.DrainID, userID id.UserID) error
	ClearAdopter(ctx context.Context, drainID id.DrainID, userID id.UserID) error
}

// UserStore is the user persistence the engine needs.
type UserStore interface {
	FindByIDForUpdate(ctx context.Context, userID id.UserID) (*identity.User, error)
	SetAdoptedDrain(ctx context.Context, userID id.UserID, drainID id.DrainID) error
	ClearAdoptedDrain(ctx context.Context, userID id.UserID, drainID id.DrainID) error
}

// Notifier records domain events. Emit joins the caller's transaction.
type Notifier interface {
	Emit(ctx context.Context, typ notification.Type, drainID id.DrainID, userID *id.UserID, message string) (*notification.Notification, error)
}

// Authorizer answers capability checks for the acting user.
type Authorizer interface {
	Require(ctx context.Context, actor id.UserID, capability authz.Capability) error
}

// StoreTx runs a unit of work atomically.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine coordinates drains, users and notifications so the adoption links
// on both sides always agree.
type Engine struct {
	drains   DrainStore
	users    UserStore
	notifier Notifier
	authz    Authorizer
	tx       StoreTx
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New constructs an Engine.
func New(drains DrainStore, users UserStore, notifier Notifier, authorizer Authorizer, tx StoreTx, opts ...Option) *Engine {
	e := &Engine{
		drains:   drains,
		users:    users,
		notifier: notifier,
		authz:    authorizer,
		tx:       tx,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AdoptDrain links userID and drainID in both directions and records a
// DRAIN_ADOPTED notification, all in one transaction. Checks run in a fixed
// order: user exists, user has no drain, drain exists, drain has no adopter.
func (e *Engine) AdoptDrain(ctx context.Context, userID id.UserID, drainID id.DrainID) (_ *models.Drain, err error) {
	ctx, span := tracer.Start(ctx, "adoption.AdoptDrain", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("drain_id", drainID.String()),
	))
	defer func(start time.Time) {
		e.metrics.ObserveOperation("adopt", time.Since(start))
		endSpan(span, err)
	}(time.Now())

	var adopted *models.Drain
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := e.users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				e.metrics.IncrementRejection("user_not_found")
				return dErrors.New(dErrors.CodeNotFound, "user not found: "+userID.String())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		if user.AdoptedDrainID != nil {
			e.metrics.IncrementRejection("user_has_drain")
			return dErrors.New(dErrors.CodeConflict, "user already adopted drain "+user.AdoptedDrainID.String())
		}

		drain, err := e.drains.FindByIDForUpdate(ctx, drainID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				e.metrics.IncrementRejection("drain_not_found")
				return drainNotFound(drainID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load drain")
		}
		if drain.AdoptedByUserID != nil {
			e.metrics.IncrementRejection("drain_taken")
			return drainTaken(*drain.AdoptedByUserID)
		}

		if err := e.drains.SetAdopter(ctx, drainID, userID); err != nil {
			return e.translateAdopterConflict(ctx, drainID, err)
		}
		if err := e.users.SetAdoptedDrain(ctx, userID, drainID); err != nil {
			e.compensateDrain(ctx, drainID, userID)
			if errors.Is(err, sentinel.ErrConflict) {
				e.metrics.IncrementRejection("user_has_drain")
				return dErrors.New(dErrors.CodeConflict, "user already adopted drain")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link user to drain")
		}

		message := fmt.Sprintf("%s adopted drain %s", user.Name, drain.Name)
		if _, err := e.notifier.Emit(ctx, notification.TypeDrainAdopted, drainID, &userID, message); err != nil {
			e.compensateUser(ctx, userID, drainID)
			e.compensateDrain(ctx, drainID, userID)
			if dErrors.HasCode(err, dErrors.CodeTimeout) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record adoption notification")
		}

		drain.AdoptedByUserID = &userID
		adopted = drain
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncrementAdopted()
	e.logInfo(ctx, "drain adopted", "drain_id", drainID, "user_id", userID)
	return adopted, nil
}

// AdoptDrainFor adopts on behalf of userID. Acting for another user requires
// CapManageDrains.
func (e *Engine) AdoptDrainFor(ctx context.Context, actor, userID id.UserID, drainID id.DrainID) (*models.Drain, error) {
	if actor.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if actor != userID {
		if err := e.authz.Require(ctx, actor, authz.CapManageDrains); err != nil {
			return nil, err
		}
	}
	return e.AdoptDrain(ctx, userID, drainID)
}

// translateAdopterConflict reports which user won a lost compare-and-set. The
// reload is best effort: in Postgres the transaction may already be aborted.
func (e *Engine) translateAdopterConflict(ctx context.Context, drainID id.DrainID, err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return drainNotFound(drainID)
	case errors.Is(err, sentinel.ErrConflict):
		e.metrics.IncrementRejection("drain_taken")
		if current, findErr := e.drains.FindByID(ctx, drainID); findErr == nil && current.AdoptedByUserID != nil {
			return drainTaken(*current.AdoptedByUserID)
		}
		return dErrors.New(dErrors.CodeConflict, "drain already adopted")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link drain to user")
}

func (e *Engine) compensateDrain(ctx context.Context, drainID id.DrainID, userID id.UserID) {
	if err := e.drains.ClearAdopter(ctx, drainID, userID); err != nil {
		e.logError(ctx, "failed to undo drain adopter", "drain_id", drainID, "user_id", userID, "error", err)
	}
}

func (e *Engine) compensateUser(ctx context.Context, userID id.UserID, drainID id.DrainID) {
	if err := e.users.ClearAdoptedDrain(ctx, userID, drainID); err != nil {
		e.logError(ctx, "failed to undo adopted drain", "drain_id", drainID, "user_id", userID, "error", err)
	}
}

// CreateDrain adds a drain. Requires CapManageDrains.
func (e *Engine) CreateDrain(ctx context.Context, actor id.UserID, in models.NewDrain) (_ *models.Drain, err error) {
	ctx, span := tracer.Start(ctx, "adoption.CreateDrain")
	defer func() { endSpan(span, err) }()

	if err := e.authz.Require(ctx, actor, authz.CapManageDrains); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	drain := &models.Drain{
		ID:        id.NewDrainID(),
		Name:      in.Name,
		ImageURL:  in.ImageURL,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.drains.Create(ctx, drain); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create drain")
	}
	e.logInfo(ctx, "drain created", "drain_id", drain.ID, "actor", actor)
	return drain, nil
}

func (e *Engine) GetDrain(ctx context.Context, drainID id.DrainID) (*models.Drain, error) {
	drain, err := e.drains.FindByID(ctx, drainID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, drainNotFound(drainID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load drain")
	}
	return drain, nil
}

func (e *Engine) ListDrains(ctx context.Context) ([]*models.Drain, error) {
	drains, err := e.drains.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drains")
	}
	return drains, nil
}

// UpdateDrain merges the non-nil fields of update into the drain. The
// adoption link is never touched. Requires CapManageDrains.
func (e *Engine) UpdateDrain(ctx context.Context, actor id.UserID, drainID id.DrainID, update models.DrainUpdate) (_ *models.Drain, err error) {
	ctx, span := tracer.Start(ctx, "adoption.UpdateDrain", trace.WithAttributes(
		attribute.String("drain_id", drainID.String()),
	))
	defer func(start time.Time) {
		e.metrics.ObserveOperation("update", time.Since(start))
		endSpan(span, err)
	}(time.Now())

	if err := e.authz.Require(ctx, actor, authz.CapManageDrains); err != nil {
		return nil, err
	}

	var updated *models.Drain
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		drain, err := e.drains.FindByIDForUpdate(ctx, drainID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return drainNotFound(drainID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load drain")
		}
		if update.IsEmpty() {
			updated = drain
			return nil
		}
		update.Apply(drain)
		drain.UpdatedAt = requestcontext.Now(ctx)
		if err := e.drains.UpdateDetails(ctx, drain); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return drainNotFound(drainID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update drain")
		}
		updated = drain
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logInfo(ctx, "drain updated", "drain_id", drainID, "actor", actor)
	return updated, nil
}

// DeleteDrain removes the drain. If it was adopted, the adopter's link is
// cleared in the same transaction. Requires CapManageDrains.
func (e *Engine) DeleteDrain(ctx context.Context, actor id.UserID, drainID id.DrainID) (err error) {
	ctx, span := tracer.Start(ctx, "adoption.DeleteDrain", trace.WithAttributes(
		attribute.String("drain_id", drainID.String()),
	))
	defer func(start time.Time) {
		e.metrics.ObserveOperation("delete", time.Since(start))
		endSpan(span, err)
	}(time.Now())

	if err := e.authz.Require(ctx, actor, authz.CapManageDrains); err != nil {
		return err
	}

	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		drain, err := e.drains.FindByIDForUpdate(ctx, drainID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return drainNotFound(drainID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load drain")
		}
		if drain.AdoptedByUserID != nil {
			if err := e.users.ClearAdoptedDrain(ctx, *drain.AdoptedByUserID, drainID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release adopter")
			}
		}
		if err := e.drains.Delete(ctx, drainID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return drainNotFound(drainID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete drain")
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.logInfo(ctx, "drain deleted", "drain_id", drainID, "actor", actor)
	return nil
}

func drainNotFound(drainID id.DrainID) error {
	return dErrors.New(dErrors.CodeNotFound, "drain not found: "+drainID.String())
}

func drainTaken(adopter id.UserID) error {
	return dErrors.New(dErrors.CodeConflict, "drain already adopted by user "+adopter.String())
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	e.logger.InfoContext(ctx, msg, args...)
}

func (e *Engine) logError(ctx context.Context, msg string, args ...any) {
	if e.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	e.logger.ErrorContext(ctx, msg, args...)
}
