package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	adoptionhandler "drainadopt/internal/adoption/handler"
	adoptionmetrics "drainadopt/internal/adoption/metrics"
	adoptionservice "drainadopt/internal/adoption/service"
	"drainadopt/internal/authz"
	authzhandler "drainadopt/internal/authz/handler"
	commenthandler "drainadopt/internal/comment/handler"
	commentservice "drainadopt/internal/comment/service"
	identityhandler "drainadopt/internal/identity/handler"
	identityservice "drainadopt/internal/identity/service"
	jwttoken "drainadopt/internal/jwt_token"
	"drainadopt/internal/media/blob"
	mediahandler "drainadopt/internal/media/handler"
	mediaservice "drainadopt/internal/media/service"
	"drainadopt/internal/notification/cache"
	notificationhandler "drainadopt/internal/notification/handler"
	notificationmetrics "drainadopt/internal/notification/metrics"
	"drainadopt/internal/notification/outbox"
	notificationservice "drainadopt/internal/notification/service"
	"drainadopt/internal/platform/config"
	"drainadopt/internal/platform/httpserver"
	"drainadopt/internal/platform/kafka"
	"drainadopt/internal/platform/metrics"
	"drainadopt/internal/platform/redis"
	ratelimitmetrics "drainadopt/internal/ratelimit/metrics"
	ratelimit "drainadopt/internal/ratelimit/middleware"
	ratelimitmodels "drainadopt/internal/ratelimit/models"
	"drainadopt/internal/ratelimit/store/bucket"
	httptransport "drainadopt/internal/transport/http"
	"drainadopt/pkg/platform/middleware/metadata"
)

func serve(ctx context.Context, cfg config.Config, log *slog.Logger, embedRelay bool) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	platformMetrics := metrics.New()
	adoptionMetrics := adoptionmetrics.New()
	notificationMetrics := notificationmetrics.New()
	checks := map[string]httptransport.HealthCheck{}
	if st.db != nil {
		checks["postgres"] = st.db.PingContext
	}

	dispatcherOpts := []notificationservice.Option{
		notificationservice.WithLogger(log),
		notificationservice.WithMetrics(notificationMetrics),
	}

	var rateLimitStore ratelimit.Store = bucket.New()
	var rateLimitOpts []ratelimit.Option
	redisClient, err := redis.New(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.WarnContext(ctx, "redis unavailable, unread count served from the store", "error", err)
	case redisClient != nil:
		defer redisClient.Close()
		checks["redis"] = redisClient.Health
		dispatcherOpts = append(dispatcherOpts, notificationservice.WithUnreadCache(cache.NewUnreadCount(redisClient,
			cache.WithTTL(cfg.Notifications.UnreadCacheTTL),
			cache.WithLogger(log),
			cache.WithMetrics(notificationMetrics),
		)))
		rateLimitStore = bucket.NewRedis(redisClient)
		rateLimitOpts = append(rateLimitOpts, ratelimit.WithFallback(bucket.New()))
	}
	limiter := ratelimit.New(rateLimitStore, map[ratelimitmodels.EndpointClass]ratelimitmodels.Limit{
		ratelimitmodels.ClassAuth:  {Requests: cfg.RateLimit.AuthLimit, Window: cfg.RateLimit.Window},
		ratelimitmodels.ClassWrite: {Requests: cfg.RateLimit.WriteLimit, Window: cfg.RateLimit.Window},
	}, log, append(rateLimitOpts,
		ratelimit.WithClassifier(ratelimit.ClassifyByPath(httptransport.APIPrefix)),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
	)...)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
			return err
		}
		checks["kafka"] = producer.Health
		dispatcherOpts = append(dispatcherOpts, notificationservice.WithOutbox(st.outbox))
	}

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	identity := identityservice.New(st.users, jwtService,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(platformMetrics),
		identityservice.WithTokenTTL(cfg.Auth.TokenTTL),
	)
	authority := authz.NewAuthority(st.users, log)
	roles := authz.NewRoles(st.users, st.tx, authority, log)
	dispatcher := notificationservice.New(st.notifications, st.tx, dispatcherOpts...)
	engine := adoptionservice.New(st.drains, st.users, dispatcher, authority, st.tx,
		adoptionservice.WithLogger(log),
		adoptionservice.WithMetrics(adoptionMetrics),
	)
	comments := commentservice.New(st.comments, st.drains, st.users, dispatcher, st.tx,
		commentservice.WithLogger(log),
	)

	blobStore, err := openBlobStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}
	media := mediaservice.New(blobStore,
		mediaservice.WithLogger(log),
		mediaservice.WithMaxBytes(cfg.Blob.MaxImageBytes),
	)

	trusted, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		TrustedProxies: trusted,
		Latency:        platformMetrics,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   checks,
		APIMiddleware:  []func(http.Handler) http.Handler{limiter.Handler},
		JSON: []httptransport.Registrar{
			identityhandler.New(identity, log),
			authzhandler.New(roles, log, validator),
			adoptionhandler.New(engine, log, validator),
			commenthandler.New(comments, log, validator),
			notificationhandler.New(dispatcher, log),
		},
		Raw: []httptransport.Registrar{
			mediahandler.New(media, log, validator),
		},
	})
	srv := httpserver.New(ctx, cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting drainadopt",
			"addr", cfg.Server.Addr,
			"postgres", st.db != nil,
			"redis", redisClient != nil,
			"kafka", producer != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if producer != nil && embedRelay {
		relay := newRelay(cfg, st, producer, log, notificationMetrics)
		g.Go(func() error {
			return ignoreCanceled(relay.Run(gctx))
		})
	}
	return g.Wait()
}

// runRelayOnly runs the outbox relay as a dedicated worker.
func runRelayOnly(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.Postgres.URL == "" {
		return errors.New("relay needs --database-url or DATABASE_URL")
	}
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	if producer == nil {
		return errors.New("relay needs KAFKA_BROKERS")
	}
	defer producer.Close()
	if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
		return err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	log.InfoContext(ctx, "starting outbox relay", "topic", producer.Topic())
	return ignoreCanceled(newRelay(cfg, st, producer, log, notificationmetrics.New()).Run(ctx))
}

func newRelay(cfg config.Config, st *stores, producer *kafka.Producer, log *slog.Logger, m *notificationmetrics.Metrics) *outbox.Relay {
	return outbox.NewRelay(st.outbox, producer, st.tx,
		outbox.WithInterval(cfg.Kafka.RelayInterval),
		outbox.WithBatchSize(cfg.Kafka.RelayBatchSize),
		outbox.WithLogger(log),
		outbox.WithMetrics(m),
	)
}

func openBlobStore(ctx context.Context, cfg config.BlobConfig) (mediaservice.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		base := cfg.PublicBaseURL
		if base == "" {
			base = httptransport.APIPrefix + "/media"
		}
		return blob.NewMemory(base), nil
	case "s3":
		return blob.NewS3(ctx, blob.S3Config{
			Region:        cfg.Region,
			Bucket:        cfg.Bucket,
			Endpoint:      cfg.Endpoint,
			PathStyle:     cfg.PathStyle,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
