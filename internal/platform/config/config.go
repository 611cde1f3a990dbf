package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "drainadopt/pkg/platform/strings"
)

// Config is the full process configuration, built once in main.
type Config struct {
	Server        Server
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Auth          AuthConfig
	Blob          BlobConfig
	Notifications NotificationConfig
	RateLimit     RateLimitConfig
}

// Server captures HTTP server level configuration. TrustedProxies lists the
// CIDRs or addresses whose X-Forwarded-For is believed.
type Server struct {
	Addr            string
	Environment     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	TrustedProxies  []string
}

// IsDev reports whether human-readable logging and dev defaults apply.
func (s Server) IsDev() bool {
	return s.Environment == "" || s.Environment == "dev" || s.Environment == "development"
}

// PostgresConfig selects the entity store. An empty URL means in-memory stores.
type PostgresConfig struct {
	URL             string
	Driver          string // "pgx" (default) or "postgres" (lib/pq)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ApplySchema     bool
	TxTimeout       time.Duration
}

// RedisConfig configures the unread-count cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the notification outbox relay. No brokers disables it.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	Partitions     int32
	RelayInterval  time.Duration
	RelayBatchSize int
}

// AuthConfig configures bearer token issuance and validation.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	TokenTTL      time.Duration
}

// BlobConfig configures image storage. Driver is "memory" or "s3".
type BlobConfig struct {
	Driver        string
	Bucket        string
	Region        string
	Endpoint      string
	PathStyle     bool
	PublicBaseURL string
	MaxImageBytes int64
}

// NotificationConfig tunes the notification read path.
type NotificationConfig struct {
	UnreadCacheTTL time.Duration
}

// RateLimitConfig bounds requests per client IP over Window.
type RateLimitConfig struct {
	Disabled   bool
	AuthLimit  int
	WriteLimit int
	Window     time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getEnv("DRAINADOPT_ADDR", ":8080"),
			Environment:     getEnv("ENVIRONMENT", "dev"),
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustedProxies:  splitList(os.Getenv("TRUSTED_PROXIES")),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Driver:          getEnv("DATABASE_DRIVER", "pgx"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ApplySchema:     os.Getenv("DATABASE_APPLY_SCHEMA") == "true",
			TxTimeout:       getDuration("DATABASE_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:          getEnv("KAFKA_NOTIFICATIONS_TOPIC", "drain-notifications"),
			Partitions:     int32(getInt("KAFKA_NOTIFICATIONS_PARTITIONS", 3)),
			RelayInterval:  getDuration("OUTBOX_RELAY_INTERVAL", time.Second),
			RelayBatchSize: getInt("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		Auth: AuthConfig{
			// Development default; production deployments must override it.
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        getEnv("JWT_ISSUER", "drainadopt"),
			TokenTTL:      getDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Blob: BlobConfig{
			Driver:        getEnv("BLOB_DRIVER", "memory"),
			Bucket:        os.Getenv("BLOB_S3_BUCKET"),
			Region:        getEnv("BLOB_S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
			PathStyle:     strings.EqualFold(os.Getenv("BLOB_S3_PATH_STYLE"), "true"),
			PublicBaseURL: os.Getenv("BLOB_PUBLIC_BASE_URL"),
			MaxImageBytes: int64(getInt("BLOB_MAX_IMAGE_BYTES", 5<<20)),
		},
		Notifications: NotificationConfig{
			UnreadCacheTTL: getDuration("NOTIFICATIONS_UNREAD_CACHE_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Disabled:   strings.EqualFold(os.Getenv("RATE_LIMIT_DISABLED"), "true"),
			AuthLimit:  getInt("RATE_LIMIT_AUTH_PER_WINDOW", 10),
			WriteLimit: getInt("RATE_LIMIT_WRITE_PER_WINDOW", 60),
			Window:     getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	return platformstrings.SplitList(v, ",")
}
