// Package authz decides who may perform privileged operations and owns role
// transitions. Roles are always read from the user store, never from tokens,
// so a promotion takes effect on the caller's next request.
package authz

import (
	"context"
	"errors"
	"log/slog"

	"drainadopt/internal/identity/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

// Capability names a privileged operation.
type Capability string

const (
	CapManageDrains Capability = "manage_drains"
	CapPromoteUsers Capability = "promote_users"
)

var requiredRole = map[Capability]models.Role{
	CapManageDrains: models.RoleAdmin,
	CapPromoteUsers: models.RoleAdmin,
}

// RoleReader loads the actor whose role is checked.
type RoleReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

// Authority answers capability checks.
type Authority struct {
	users  RoleReader
	logger *slog.Logger
}

// NewAuthority constructs an Authority; logger may be nil.
func NewAuthority(users RoleReader, logger *slog.Logger) *Authority {
	return &Authority{users: users, logger: logger}
}

// Require returns nil when actor holds capability. A nil or unknown actor is
// Unauthorized; an actor with an insufficient role is Forbidden.
func (a *Authority) Require(ctx context.Context, actor id.UserID, capability Capability) error {
	if actor.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	role, known := requiredRole[capability]
	if !known {
		return dErrors.New(dErrors.CodeForbidden, "unknown capability")
	}

	u, err := a.users.FindByID(ctx, actor)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnauthorized, "authenticated user no longer exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load actor")
	}
	if u.Role != role {
		if a.logger != nil {
			a.logger.WarnContext(ctx, "capability denied",
				"user_id", actor,
				"capability", capability,
				"role", u.Role,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return nil
}
