package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drainadopt/internal/comment/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/httputil"
	authmw "drainadopt/pkg/platform/middleware/auth"
	request "drainadopt/pkg/platform/middleware/request"
	"drainadopt/pkg/requestcontext"
)

// Service defines the comment operations exposed over HTTP.
type Service interface {
	AddComment(ctx context.Context, drainID id.DrainID, userID id.UserID, text, imageURL string) (*models.View, error)
	ListByDrain(ctx context.Context, drainID id.DrainID) ([]models.View, error)
}

// Handler serves drain comments.
type Handler struct {
	comments     Service
	logger       *slog.Logger
	jwtValidator authmw.JWTValidator
}

func New(comments Service, logger *slog.Logger, jwtValidator authmw.JWTValidator) *Handler {
	return &Handler{comments: comments, logger: logger, jwtValidator: jwtValidator}
}

// Register registers the comment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/drains/{id}/comments", h.handleList)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/drains/{id}/comments", h.handleAdd)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	views, err := h.comments.ListByDrain(r.Context(), drainID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	drainID, err := id.ParseDrainID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AddCommentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.comments.AddComment(ctx, drainID, requestcontext.UserID(ctx), req.Text, req.ImageURL)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}
