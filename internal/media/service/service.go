// Package service validates and stores uploaded drain images.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"drainadopt/internal/media/blob"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

// DefaultMaxBytes caps an image upload at 5 MiB.
const DefaultMaxBytes int64 = 5 << 20

const keyPrefix = "images/"

// Store is the blob backend behind uploads.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (*blob.Object, error)
	URL(ctx context.Context, key string) (string, error)
}

// Upload is the result of a stored image.
type Upload struct {
	URL string `json:"url"`
}

type Service struct {
	store    Store
	maxBytes int64
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes reports the largest accepted image.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload stores an image under images/<uuid><ext> and returns its URL.
func (s *Service) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*Upload, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, dErrors.New(dErrors.CodeValidation, "only image uploads are allowed")
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read upload")
	}
	if n == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "image is empty")
	}
	if n > s.maxBytes {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("image must be at most %d bytes", s.maxBytes))
	}

	key := keyPrefix + uuid.NewString() + extension(filename, mediaType)
	if err := s.store.Put(ctx, key, buf.Bytes(), mediaType); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store image")
	}
	url, err := s.store.URL(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve image url")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "image uploaded",
			"key", key,
			"bytes", n,
			"content_type", mediaType,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return &Upload{URL: url}, nil
}

// Open returns a stored image by file name, the last segment of its key.
func (s *Service) Open(ctx context.Context, name string) (*blob.Object, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, dErrors.New(dErrors.CodeNotFound, "image not found: "+name)
	}
	obj, err := s.store.Get(ctx, keyPrefix+name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "image not found: "+name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load image")
	}
	return obj, nil
}

// extension prefers the uploaded file's extension and falls back to one
// registered for the media type.
func extension(filename, mediaType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
