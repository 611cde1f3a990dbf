package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drainadopt/internal/notification/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/httputil"
	request "drainadopt/pkg/platform/middleware/request"
)

// Service defines the notification operations exposed over HTTP.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	MarkAllRead(ctx context.Context) error
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// Handler serves the notification feed.
type Handler struct {
	notifications Service
	logger        *slog.Logger
}

// New creates a new notification Handler.
func New(notifications Service, logger *slog.Logger) *Handler {
	return &Handler{notifications: notifications, logger: logger}
}

// Register registers the notification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Get("/notifications/unread-count", h.handleUnreadCount)
	r.Put("/notifications/mark-all-read", h.handleMarkAllRead)
	r.Put("/notifications/{id}/read", h.handleMarkRead)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.CountUnread(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.UnreadCount{Count: count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	n, err := h.notifications.MarkRead(r.Context(), notificationID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.notifications.MarkAllRead(ctx); err != nil {
		h.logger.ErrorContext(ctx, "mark all read failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "All notifications marked as read"})
}
