package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/ratelimit/models"
)

var testLimit = models.Limit{Requests: 3, Window: time.Minute}

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	now   time.Time
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.store = New()
	s.store.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("counts down to the limit", func() {
		for want := testLimit.Requests - 1; want >= 0; want-- {
			res, err := s.store.Allow(s.ctx, "k:countdown", testLimit)
			s.Require().NoError(err)
			s.True(res.Allowed)
			s.Equal(want, res.Remaining)
			s.Equal(testLimit.Requests, res.Limit)
		}
	})

	s.Run("denies over the limit with retry after", func() {
		for range testLimit.Requests {
			_, err := s.store.Allow(s.ctx, "k:over", testLimit)
			s.Require().NoError(err)
		}
		s.now = s.now.Add(20 * time.Second)
		res, err := s.store.Allow(s.ctx, "k:over", testLimit)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(0, res.Remaining)
		s.Equal(40, res.RetryAfter)
	})

	s.Run("window slides", func() {
		for range testLimit.Requests {
			_, err := s.store.Allow(s.ctx, "k:slide", testLimit)
			s.Require().NoError(err)
		}
		s.now = s.now.Add(testLimit.Window)
		res, err := s.store.Allow(s.ctx, "k:slide", testLimit)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(testLimit.Requests-1, res.Remaining)
	})

	s.Run("keys are independent", func() {
		for range testLimit.Requests {
			_, err := s.store.Allow(s.ctx, "k:a", testLimit)
			s.Require().NoError(err)
		}
		res, err := s.store.Allow(s.ctx, "k:b", testLimit)
		s.Require().NoError(err)
		s.True(res.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	for range testLimit.Requests {
		_, err := s.store.Allow(s.ctx, "k:reset", testLimit)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "k:reset"))
	res, err := s.store.Allow(s.ctx, "k:reset", testLimit)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentAllowNeverExceedsLimit() {
	limit := models.Limit{Requests: 25, Window: time.Minute}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(s.ctx, "k:concurrent", limit)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(limit.Requests, allowed)
}
