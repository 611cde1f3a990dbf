package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drainadopt/internal/adoption/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/httputil"
	authmw "drainadopt/pkg/platform/middleware/auth"
	request "drainadopt/pkg/platform/middleware/request"
	"drainadopt/pkg/requestcontext"
)

// Service defines the adoption engine operations exposed over HTTP.
type Service interface {
	ListDrains(ctx context.Context) ([]*models.Drain, error)
	GetDrain(ctx context.Context, drainID id.DrainID) (*models.Drain, error)
	CreateDrain(ctx context.Context, actor id.UserID, in models.NewDrain) (*models.Drain, error)
	UpdateDrain(ctx context.Context, actor id.UserID, drainID id.DrainID, update models.DrainUpdate) (*models.Drain, error)
	DeleteDrain(ctx context.Context, actor id.UserID, drainID id.DrainID) error
	AdoptDrainFor(ctx context.Context, actor, userID id.UserID, drainID id.DrainID) (*models.Drain, error)
}

// Handler serves the drain endpoints.
type Handler struct {
	engine       Service
	logger       *slog.Logger
	jwtValidator authmw.JWTValidator
}

// New creates a new drain Handler.
func New(engine Service, logger *slog.Logger, jwtValidator authmw.JWTValidator) *Handler {
	return &Handler{engine: engine, logger: logger, jwtValidator: jwtValidator}
}

// Register registers the drain routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/drains", h.handleList)
	r.Get("/drains/{id}", h.handleGet)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/drains", h.handleCreate)
		r.Put("/drains/{id}", h.handleUpdate)
		r.Delete("/drains/{id}", h.handleDelete)
		r.Post("/drains/{id}/adopt", h.handleAdopt)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	drains, err := h.engine.ListDrains(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	views := make([]models.View, 0, len(drains))
	for _, d := range drains {
		views = append(views, d.ToView())
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	drain, err := h.engine.GetDrain(r.Context(), drainID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, drain.ToView())
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateDrainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	drain, err := h.engine.CreateDrain(ctx, requestcontext.UserID(ctx), req.ToNewDrain())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, drain.ToView())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateDrainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	drain, err := h.engine.UpdateDrain(ctx, requestcontext.UserID(ctx), drainID, req.ToUpdate())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, drain.ToView())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.engine.DeleteDrain(ctx, requestcontext.UserID(ctx), drainID); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdopt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	actor := requestcontext.UserID(ctx)
	userID := actor
	if raw := r.URL.Query().Get("userId"); raw != "" {
		if userID, err = id.ParseUserID(raw); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
	}

	drain, err := h.engine.AdoptDrainFor(ctx, actor, userID, drainID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.InfoContext(ctx, "adoption rejected",
				"request_id", requestID,
				"drain_id", drainID,
				"user_id", userID,
				"reason", err.Error(),
			)
		}
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, drain.ToView())
}
