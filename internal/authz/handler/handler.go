package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drainadopt/internal/identity/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/httputil"
	authmw "drainadopt/pkg/platform/middleware/auth"
	request "drainadopt/pkg/platform/middleware/request"
	"drainadopt/pkg/requestcontext"
)

// Service defines the role transitions exposed over HTTP.
type Service interface {
	BootstrapAdmin(ctx context.Context, name, email, password string) (*models.User, error)
	Promote(ctx context.Context, actor, target id.UserID) (*models.User, error)
}

// RoleChangeResponse reports the user after a role transition.
type RoleChangeResponse struct {
	Message string      `json:"message"`
	UserID  id.UserID   `json:"userId"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Role    models.Role `json:"role"`
}

// Handler serves the admin endpoints.
type Handler struct {
	roles        Service
	logger       *slog.Logger
	jwtValidator authmw.JWTValidator
}

// New creates a new admin Handler.
func New(roles Service, logger *slog.Logger, jwtValidator authmw.JWTValidator) *Handler {
	return &Handler{roles: roles, logger: logger, jwtValidator: jwtValidator}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/create-first-admin", h.handleCreateFirstAdmin)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
		r.Put("/admin/promote/{userId}", h.handlePromote)
	})
}

func (h *Handler) handleCreateFirstAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	admin, err := h.roles.BootstrapAdmin(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeForbidden) {
			h.logger.WarnContext(ctx, "first admin bootstrap rejected",
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse("First admin user created successfully", admin))
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target, err := id.ParseUserID(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	promoted, err := h.roles.Promote(ctx, requestcontext.UserID(ctx), target)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse("User promoted to admin successfully", promoted))
}

func toResponse(message string, u *models.User) RoleChangeResponse {
	return RoleChangeResponse{Message: message, UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
