package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"drainadopt/internal/ratelimit/models"
)

// InMemoryBucketStore keeps a sliding window of request timestamps per key.
// It is process local; RedisStore shares windows across instances.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

func New() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records one request for key when it fits within limit.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	window := prune(s.buckets[key], now.Add(-limit.Window))

	if len(window) >= limit.Requests {
		s.buckets[key] = window
		var resetAt time.Time
		if len(window) > 0 {
			resetAt = window[0].Add(limit.Window)
		} else {
			resetAt = now.Add(limit.Window)
		}
		return &models.Result{
			Allowed:    false,
			Limit:      limit.Requests,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(now, resetAt),
		}, nil
	}

	window = append(window, now)
	s.buckets[key] = window
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(window),
		ResetAt:   window[0].Add(limit.Window),
	}, nil
}

// Reset clears a key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// prune drops timestamps at or before cutoff. Timestamps are ascending.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(ts); i++ {
		if ts[i].After(cutoff) {
			break
		}
	}
	return ts[i:]
}

func retryAfter(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
