// Package cache holds the Redis read-through cache for the unread
// notification count.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"drainadopt/internal/notification/metrics"
	"drainadopt/pkg/platform/circuit"
)

const (
	UnreadCountKey   = "notifications:unread_count"
	UnreadVersionKey = "notifications:unread_count:version"
	DefaultTTL       = 30 * time.Second
)

// setIfCurrent writes the count only while the version is the one the reader
// saw before loading it from the store.
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// invalidate bumps the version and drops the count in one step.
var invalidate = redis.NewScript(`
redis.call("INCR", KEYS[2])
redis.call("DEL", KEYS[1])
return 1
`)

// UnreadCount caches the unread notification count. Redis errors are logged
// and reported as misses; after repeated failures the breaker skips Redis
// until it recovers.
type UnreadCount struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*UnreadCount)

func WithTTL(ttl time.Duration) Option {
	return func(c *UnreadCount) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *UnreadCount) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *UnreadCount) {
		c.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *UnreadCount) {
		c.breaker = b
	}
}

// NewUnreadCount wraps client.
func NewUnreadCount(client redis.Cmdable, opts ...Option) *UnreadCount {
	c := &UnreadCount{
		client:  client,
		ttl:     DefaultTTL,
		breaker: circuit.New("redis-unread-count", circuit.WithFailureThreshold(3)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached count, the current version and whether the count
// was present. The version is 0 before the first invalidation.
func (c *UnreadCount) Get(ctx context.Context) (int64, int64, bool) {
	if !c.breaker.Allow() {
		c.metrics.IncrementCacheLookup("bypass")
		return 0, 0, false
	}
	vals, err := c.client.MGet(ctx, UnreadCountKey, UnreadVersionKey).Result()
	if err != nil {
		c.recordFailure(ctx, "get", err)
		c.metrics.IncrementCacheLookup("bypass")
		return 0, 0, false
	}
	c.recordSuccess()
	version, _ := parseInt(vals[1])
	count, ok := parseInt(vals[0])
	if !ok {
		c.metrics.IncrementCacheLookup("miss")
		return 0, version, false
	}
	c.metrics.IncrementCacheLookup("hit")
	return count, version, true
}

// Set caches count unless an invalidation moved the version past version.
func (c *UnreadCount) Set(ctx context.Context, version, count int64) {
	if !c.breaker.Allow() {
		return
	}
	err := setIfCurrent.Run(ctx, c.client, []string{UnreadCountKey, UnreadVersionKey},
		version, count, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		c.recordFailure(ctx, "set", err)
		return
	}
	c.recordSuccess()
}

// Invalidate drops the cached value and bumps the version. It is attempted
// even when the breaker is open so a recovered Redis never serves a stale
// count.
func (c *UnreadCount) Invalidate(ctx context.Context) {
	if err := invalidate.Run(ctx, c.client, []string{UnreadCountKey, UnreadVersionKey}).Err(); err != nil {
		c.recordFailure(ctx, "invalidate", err)
		return
	}
	c.recordSuccess()
}

func parseInt(v any) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *UnreadCount) recordSuccess() {
	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.Info("unread count cache recovered")
	}
}

func (c *UnreadCount) recordFailure(ctx context.Context, op string, err error) {
	_, change := c.breaker.RecordFailure()
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, "unread count cache error", "op", op, "error", err)
	if change.Opened {
		c.logger.WarnContext(ctx, "unread count cache disabled after repeated failures")
	}
}
