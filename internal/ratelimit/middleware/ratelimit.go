package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"drainadopt/internal/ratelimit/metrics"
	"drainadopt/internal/ratelimit/models"
	"drainadopt/pkg/platform/circuit"
	"drainadopt/pkg/platform/httputil"
	request "drainadopt/pkg/platform/middleware/request"
	"drainadopt/pkg/requestcontext"
)

// Store is a sliding-window bucket store.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

// Classifier maps a request to its endpoint class. ok=false leaves the
// request unlimited.
type Classifier func(r *http.Request) (class models.EndpointClass, ok bool)

type Middleware struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limits   map[models.EndpointClass]models.Limit
	classify Classifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithFallback serves checks from fallback while the primary store fails.
func WithFallback(fallback Store) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

func WithClassifier(c Classifier) Option {
	return func(m *Middleware) {
		m.classify = c
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(primary Store, limits map[models.EndpointClass]models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary:  primary,
		limits:   limits,
		logger:   logger,
		breaker:  circuit.New("ratelimit-store"),
		classify: ClassifyByPath(""),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ClassifyByPath limits mutations: auth and admin routes under prefix are
// ClassAuth, every other write is ClassWrite. Reads are not limited.
func ClassifyByPath(prefix string) Classifier {
	return func(r *http.Request) (models.EndpointClass, bool) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return "", false
		}
		path := strings.TrimPrefix(r.URL.Path, prefix)
		if strings.HasPrefix(path, "/auth/") || strings.HasPrefix(path, "/admin/") {
			return models.ClassAuth, true
		}
		return models.ClassWrite, true
	}
}

// Handler enforces the limit for the request's class and client IP.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}
		class, ok := m.classify(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		limit, ok := m.limits[class]
		if !ok || limit.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		result, degraded, err := m.check(ctx, models.Key(class, ip), limit)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"class", class,
				"error", err,
				"request_id", request.GetRequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}
		if !result.Allowed {
			m.metrics.IncrementRejected(string(class))
			m.logger.InfoContext(ctx, "rate limit exceeded",
				"class", class,
				"retry_after", result.RetryAfter,
				"request_id", request.GetRequestID(ctx),
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// check consults the primary store unless the breaker has tripped, and the
// fallback store when the primary is unavailable.
func (m *Middleware) check(ctx context.Context, key string, limit models.Limit) (*models.Result, bool, error) {
	if m.fallback == nil {
		res, err := m.primary.Allow(ctx, key, limit)
		return res, false, err
	}

	if m.breaker.Allow() {
		res, err := m.primary.Allow(ctx, key, limit)
		if err == nil {
			if _, change := m.breaker.RecordSuccess(); change.Closed {
				m.metrics.SetCircuitOpen(false)
				m.logger.InfoContext(ctx, "rate limit store recovered")
			}
			return res, false, nil
		}
		_, change := m.breaker.RecordFailure()
		if change.Opened {
			m.metrics.SetCircuitOpen(true)
			m.logger.WarnContext(ctx, "rate limit store unavailable, using in-memory fallback", "error", err)
		}
	}

	m.metrics.IncrementFallback()
	res, err := m.fallback.Allow(ctx, key, limit)
	return res, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
