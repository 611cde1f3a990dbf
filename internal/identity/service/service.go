package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"drainadopt/internal/identity/models"
	"drainadopt/internal/platform/metrics"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/requestcontext"
)

const defaultTokenTTL = 24 * time.Hour

// UserStore is the persistence the identity service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, role string, expiresIn time.Duration) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token  string      `json:"token"`
	UserID id.UserID   `json:"userId"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// Service registers and authenticates users and serves user projections.
type Service struct {
	users    UserStore
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// New constructs a Service.
func New(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, tokenTTL: defaultTokenTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an ADOPTER account and signs the caller in. Public
// registration never grants ADMIN.
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           id.NewUserID(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdopter,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "Email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	s.logInfo(ctx, "user registered", "user_id", u.ID)
	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	return s.issue(u)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !CheckPassword(u.PasswordHash, password) {
		s.logWarn(ctx, "login failed", "user_id", u.ID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password")
	}
	return s.issue(u)
}

// IssueFor signs a token for an existing user.
func (s *Service) IssueFor(u *models.User) (*AuthResult, error) {
	return s.issue(u)
}

func (s *Service) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &AuthResult{Token: token, UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, nil
}

// GetUser returns a single user projection.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.View, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found: "+userID.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	view := u.ToView()
	return &view, nil
}

// ListUsers returns every user in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]models.View, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	out := make([]models.View, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToView())
	}
	return out, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.WarnContext(ctx, msg, args...)
}
