package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"drainadopt/pkg/platform/circuit"
)

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	c := NewUnreadCount(client, WithBreaker(breaker))
	ctx := context.Background()

	_, _, ok := c.Get(ctx)
	assert.False(t, ok)
	c.Set(ctx, 0, 4)
	assert.True(t, breaker.IsOpen(), "two failures open the breaker")

	_, _, ok = c.Get(ctx)
	assert.False(t, ok, "open breaker bypasses redis")
}
