package authz

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"drainadopt/internal/identity/models"
	identity "drainadopt/internal/identity/service"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

// UserStore is the persistence role transitions need.
type UserStore interface {
	CreateIfNoAdmin(ctx context.Context, u *models.User) error
	FindByIDForUpdate(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateRole(ctx context.Context, userID id.UserID, role models.Role) error
}

// StoreTx runs a unit of work atomically.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Roles performs role transitions: first-admin bootstrap and promotion.
type Roles struct {
	users     UserStore
	tx        StoreTx
	authority *Authority
	logger    *slog.Logger
}

// NewRoles constructs Roles; logger may be nil.
func NewRoles(users UserStore, tx StoreTx, authority *Authority, logger *slog.Logger) *Roles {
	return &Roles{users: users, tx: tx, authority: authority, logger: logger}
}

// BootstrapAdmin creates the first ADMIN. It succeeds only while no ADMIN
// exists; the existence check and insert are atomic in the store.
func (r *Roles) BootstrapAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		ID:           id.NewUserID(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    requestcontext.Now(ctx),
	}

	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		return r.users.CreateIfNoAdmin(ctx, admin)
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeForbidden, "Admin user already exists. Use the promotion endpoint instead.")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "Email already exists")
		case dErrors.HasCode(err, dErrors.CodeTimeout):
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin")
	}
	r.log(ctx, "first admin created", "user_id", admin.ID)
	return admin, nil
}

// Promote grants ADMIN to target. The actor must hold CapPromoteUsers.
func (r *Roles) Promote(ctx context.Context, actor, target id.UserID) (*models.User, error) {
	if err := r.authority.Require(ctx, actor, CapPromoteUsers); err != nil {
		return nil, err
	}

	var promoted *models.User
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := r.users.FindByIDForUpdate(ctx, target)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "user not found: "+target.String())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		if u.IsAdmin() {
			return dErrors.New(dErrors.CodeConflict, "user is already an admin")
		}
		if err := r.users.UpdateRole(ctx, target, models.RoleAdmin); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update role")
		}
		u.Role = models.RoleAdmin
		promoted = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log(ctx, "user promoted to admin", "user_id", target, "actor_id", actor)
	return promoted, nil
}

func (r *Roles) log(ctx context.Context, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	r.logger.InfoContext(ctx, msg, args...)
}
