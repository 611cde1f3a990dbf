package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults select in-memory backends", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_URL", "")
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("TRUSTED_PROXIES", "")

		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "pgx", cfg.Postgres.Driver)
		assert.Empty(t, cfg.Postgres.URL)
		assert.Empty(t, cfg.Kafka.Brokers)
		assert.Equal(t, "memory", cfg.Blob.Driver)
		assert.Equal(t, 30*time.Second, cfg.Notifications.UnreadCacheTTL)
		assert.True(t, cfg.Server.IsDev())
		assert.False(t, cfg.RateLimit.Disabled)
		assert.Equal(t, 10, cfg.RateLimit.AuthLimit)
		assert.Equal(t, time.Minute, cfg.RateLimit.Window)
		assert.Empty(t, cfg.Server.TrustedProxies)
	})

	t.Run("parses lists and durations", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
		t.Setenv("OUTBOX_RELAY_INTERVAL", "250ms")
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ::1")

		cfg := FromEnv()
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 250*time.Millisecond, cfg.Kafka.RelayInterval)
		assert.Equal(t, "postgres", cfg.Postgres.Driver)
		assert.False(t, cfg.Server.IsDev())
		assert.Equal(t, []string{"10.0.0.0/8", "::1"}, cfg.Server.TrustedProxies)
	})

	t.Run("malformed numbers fall back", func(t *testing.T) {
		t.Setenv("REDIS_POOL_SIZE", "lots")
		assert.Equal(t, 10, FromEnv().Redis.PoolSize)
	})
}
