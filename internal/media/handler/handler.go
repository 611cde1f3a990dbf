package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drainadopt/internal/media/blob"
	"drainadopt/internal/media/service"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/httputil"
	authmw "drainadopt/pkg/platform/middleware/auth"
	request "drainadopt/pkg/platform/middleware/request"
)

// multipartOverhead leaves room for form boundaries and headers.
const multipartOverhead = 1 << 20

// Service defines the media operations exposed over HTTP.
type Service interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (*service.Upload, error)
	Open(ctx context.Context, name string) (*blob.Object, error)
	MaxBytes() int64
}

// Handler serves image uploads and downloads.
type Handler struct {
	media        Service
	logger       *slog.Logger
	jwtValidator authmw.JWTValidator
}

func New(media Service, logger *slog.Logger, jwtValidator authmw.JWTValidator) *Handler {
	return &Handler{media: media, logger: logger, jwtValidator: jwtValidator}
}

// Register registers the media routes. Uploads are multipart/form-data with
// the image in the "file" field.
func (h *Handler) Register(r chi.Router) {
	r.Get("/media/images/{name}", h.handleGet)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/media/images", h.handleUpload)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, dErrors.New(dErrors.CodeValidation, "image is too large"))
			return
		}
		h.logger.WarnContext(ctx, "invalid upload form",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, r, dErrors.New(dErrors.CodeBadRequest, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	up, err := h.media.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, up)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	obj, err := h.media.Open(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Body)
}
