package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, user string, body any) error
	LastStatus() int
	LastBody() []byte
	LastHeader(name string) string
	Email(user string) string
}

// RegisterSteps registers rate limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^"([^"]*)" fails to sign in (\d+) times$`, steps.failsSignInNTimes)
	ctx.Step(`^the first (\d+) attempts should not be rate limited$`, steps.firstAttemptsNotLimited)
	ctx.Step(`^the last attempt should be rate limited$`, steps.lastAttemptLimited)
	ctx.Step(`^the response should carry rate limit headers$`, steps.responseHasRateLimitHeaders)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) failsSignInNTimes(ctx context.Context, user string, times int) error {
	s.statuses = s.statuses[:0]
	for range times {
		err := s.tc.Do("POST", "/api/auth/login", "", map[string]string{
			"email":    s.tc.Email(user),
			"password": "wrong-password",
		})
		if err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.LastStatus())
	}
	return nil
}

func (s *ratelimitSteps) firstAttemptsNotLimited(ctx context.Context, n int) error {
	if n > len(s.statuses) {
		return fmt.Errorf("only %d attempts were made", len(s.statuses))
	}
	for i, status := range s.statuses[:n] {
		if status == 429 {
			return fmt.Errorf("attempt %d was rate limited", i+1)
		}
	}
	return nil
}

func (s *ratelimitSteps) lastAttemptLimited(ctx context.Context) error {
	if s.tc.LastStatus() != 429 {
		return fmt.Errorf("expected 429, got %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	retry, err := strconv.Atoi(s.tc.LastHeader("Retry-After"))
	if err != nil || retry < 1 {
		return fmt.Errorf("expected a positive Retry-After header, got %q", s.tc.LastHeader("Retry-After"))
	}
	return nil
}

func (s *ratelimitSteps) responseHasRateLimitHeaders(ctx context.Context) error {
	for _, h := range []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"} {
		if s.tc.LastHeader(h) == "" {
			return fmt.Errorf("missing %s header", h)
		}
	}
	return nil
}
