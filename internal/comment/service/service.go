package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	adoption "drainadopt/internal/adoption/models"
	"drainadopt/internal/comment/models"
	identity "drainadopt/internal/identity/models"
	notification "drainadopt/internal/notification/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

// CommentStore is the comment persistence the service needs.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByDrain(ctx context.Context, drainID id.DrainID) ([]*models.Comment, error)
}

type DrainReader interface {
	FindByID(ctx context.Context, drainID id.DrainID) (*adoption.Drain, error)
}

type UserReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*identity.User, error)
}

// Notifier records domain events. Emit joins the caller's transaction.
type Notifier interface {
	Emit(ctx context.Context, typ notification.Type, drainID id.DrainID, userID *id.UserID, message string) (*notification.Notification, error)
}

// StoreTx runs a unit of work atomically.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service adds and lists drain comments.
type Service struct {
	comments CommentStore
	drains   DrainReader
	users    UserReader
	notifier Notifier
	tx       StoreTx
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(comments CommentStore, drains DrainReader, users UserReader, notifier Notifier, tx StoreTx, opts ...Option) *Service {
	s := &Service{comments: comments, drains: drains, users: users, notifier: notifier, tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddComment stores a comment and records a COMMENT_ADDED notification in the
// same transaction.
func (s *Service) AddComment(ctx context.Context, drainID id.DrainID, userID id.UserID, text, imageURL string) (*models.View, error) {
	text = strings.TrimSpace(text)
	if err := models.ValidateText(text); err != nil {
		return nil, err
	}

	var view models.View
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "user not found: "+userID.String())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		drain, err := s.loadDrain(ctx, drainID)
		if err != nil {
			return err
		}

		c := &models.Comment{
			ID:        id.NewCommentID(),
			DrainID:   drainID,
			UserID:    userID,
			Text:      text,
			ImageURL:  strings.TrimSpace(imageURL),
			CreatedAt: requestcontext.Now(ctx).UTC(),
		}
		if err := s.comments.Create(ctx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save comment")
		}

		message := fmt.Sprintf("%s commented on drain %s", user.Name, drain.Name)
		if _, err := s.notifier.Emit(ctx, notification.TypeCommentAdded, drainID, &userID, message); err != nil {
			if dErrors.HasCode(err, dErrors.CodeTimeout) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record comment notification")
		}
		view = c.ToView(user.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "comment added",
			"comment_id", view.ID,
			"drain_id", drainID,
			"user_id", userID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return &view, nil
}

// ListByDrain returns the drain's comments newest first with author names.
func (s *Service) ListByDrain(ctx context.Context, drainID id.DrainID) ([]models.View, error) {
	if _, err := s.loadDrain(ctx, drainID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByDrain(ctx, drainID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list comments")
	}

	names := make(map[id.UserID]string)
	views := make([]models.View, 0, len(comments))
	for _, c := range comments {
		name, ok := names[c.UserID]
		if !ok {
			u, err := s.users.FindByID(ctx, c.UserID)
			switch {
			case err == nil:
				name = u.Name
			case !errors.Is(err, sentinel.ErrNotFound):
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load comment author")
			}
			names[c.UserID] = name
		}
		views = append(views, c.ToView(name))
	}
	return views, nil
}

func (s *Service) loadDrain(ctx context.Context, drainID id.DrainID) (*adoption.Drain, error) {
	drain, err := s.drains.FindByID(ctx, drainID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "drain not found: "+drainID.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load drain")
	}
	return drain, nil
}
