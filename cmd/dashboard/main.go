package main

import (
	"context"
	"errors"
	"time"

	assetHandler "assetshare/internal/assets/handler"
	assetService "assetshare/internal/assets/service"
	assetValidator "assetshare/internal/assets/validator"
	authHandler "assetshare/internal/auth/handler"
	authService "assetshare/internal/auth/service"
	authValidator "assetshare/internal/auth/validator"
	bookingHandler "assetshare/internal/bookings/handler"
	bookingService "assetshare/internal/bookings/service"
	bookingValidator "assetshare/internal/bookings/validator"
	"assetshare/internal/cache"
	"assetshare/internal/events"
	"assetshare/internal/realtime"
	"assetshare/internal/session"
	statsHandler "assetshare/internal/stats/handler"
	statsService "assetshare/internal/stats/service"
	userHandler "assetshare/internal/users/handler"
	userService "assetshare/internal/users/service"
	userValidator "assetshare/internal/users/validator"
	"assetshare/pkg/app"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	"assetshare/pkg/kafka"
	kafka_config "assetshare/pkg/kafka/config"
	kafkaMiddleware "assetshare/pkg/kafka/middleware"
	"assetshare/pkg/middleware"
	"assetshare/pkg/validation"
)

const ServiceName = "dashboard"

const restoreTimeout = 10 * time.Second

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting dashboard gateway", "instance_id", cfg.InstanceID)

	if cfg.NeedsRedis() {
		cfg.SetRedis()
	}
	if cfg.NeedsMongo() {
		cfg.SetMongo()
	}

	serverApp := app.NewApplication(cfg)

	tokens := initTokenStore(cfg)
	store := initCacheStore(cfg)
	serverApp.OnShutdown("cache", store.Close)
	invalidator := cache.NewInvalidator(store, cfg.Log)

	marketplace := client.NewMarketplace(cfg.APIBaseURL, cfg.HTTPClientTimeout, tokens)
	sess := session.New(tokens, marketplace.Auth, store, invalidator, cfg.Log)
	sess.Attach(marketplace.Authed)
	restoreSession(cfg, sess)

	hub := realtime.NewHub(cfg.CORSAllowedOrigins, cfg.Log)
	hub.Attach(invalidator, sess)
	serverApp.AddWorker("realtime", hub.Run)

	if cfg.EventsEnabled {
		initEvents(cfg, serverApp, invalidator)
	}

	loginLimiter := middleware.NewRateLimiter(
		cfg.LoginRateLimitRequests,
		cfg.LoginRateLimitWindow,
		middleware.ClientIP,
		cfg.Log,
	)
	serverApp.OnShutdown("login rate limiter", func() error {
		loginLimiter.Stop()
		return nil
	})

	v := validation.MustNew()
	assets := assetService.NewAssetService(
		marketplace.Assets,
		marketplace.Uploads,
		store,
		invalidator,
		assetValidator.NewAssetValidator(v, cfg.MaxImageSize, cfg.Log),
		cfg,
	)
	bookings := bookingService.NewBookingService(
		marketplace.Bookings,
		assets,
		store,
		invalidator,
		bookingValidator.NewBookingValidator(v, cfg.Log),
		cfg,
	)
	auth := authService.NewAuthService(
		sess,
		marketplace.Auth,
		store,
		invalidator,
		authValidator.NewAuthValidator(v, cfg.Log),
		cfg,
	)
	users := userService.NewUserService(
		marketplace.Users,
		store,
		invalidator,
		userValidator.NewUserValidator(v, cfg.Log),
		cfg,
	)
	stats := statsService.NewStatsService(marketplace.Stats, store, cfg)

	serverApp.SetApp(
		initHealth(cfg),
		hub,
		authHandler.NewAuthHandler(auth, sess.Require, loginLimiter, cfg.Log),
		assetHandler.NewAssetHandler(assets, sess.Require, cfg.Log),
		bookingHandler.NewBookingHandler(bookings, sess.Require, cfg.Log),
		userHandler.NewUserHandler(users, sess.Require, cfg.Log),
		statsHandler.NewStatsHandler(stats, sess.Require, cfg.Log),
	)
	serverApp.Run()
}

func initTokenStore(cfg *config.Config) session.TokenStore {
	switch cfg.TokenStore {
	case config.StoreRedis:
		return session.NewRedisTokenStore(cfg.Client.Redis)
	case config.StoreMongo:
		return session.NewMongoTokenStore(cfg.Client.Mongo, cfg.MongoDatabaseName)
	default:
		return session.NewMemoryTokenStore()
	}
}

func initCacheStore(cfg *config.Config) cache.Store {
	if cfg.CacheStore == config.StoreRedis {
		return cache.NewRedisStore(cfg.Client.Redis, cfg.CacheTTL)
	}
	return cache.NewMemoryStore(cfg.CacheTTL)
}

func restoreSession(cfg *config.Config, sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	restored, err := sess.Restore(ctx)
	if err != nil {
		cfg.Log.Warn("Failed to restore session", "error", err)
		return
	}
	cfg.Log.Info("Session restore finished", "restored", restored)
}

func initHealth(cfg *config.Config) *app.HealthHandler {
	health := app.NewHealthHandler(cfg.Log)
	if cfg.Client.Redis != nil {
		redisClient := cfg.Client.Redis
		health.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if cfg.Client.Mongo != nil {
		mongoClient := cfg.Client.Mongo
		health.AddCheck("mongodb", func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		})
	}
	return health
}

// initEvents shares invalidations with the other gateway instances. A broken
// Kafka configuration is fatal once events are enabled.
func initEvents(cfg *config.Config, serverApp *app.Application, invalidator *cache.Invalidator) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkaMiddleware.LoggingProducerMiddleware(cfg.Log))
	publisher := events.NewKafkaPublisher(producer)
	serverApp.OnShutdown("event publisher", publisher.Close)
	events.NewForwarder(publisher, cfg.InstanceID, cfg.Log).Attach(invalidator)

	subscriber := events.NewSubscriber(invalidator, cfg.InstanceID, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, kafkaCfg.GroupID(cfg.InstanceID), subscriber.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkaMiddleware.LoggingConsumerMiddleware(cfg.Log))
	serverApp.OnShutdown("event consumer", consumer.Close)
	serverApp.AddWorker("events", func(ctx context.Context) {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Event consumer stopped", "error", err)
		}
	})

	cfg.Log.Info("Cross-instance invalidation enabled", "topic", cfg.EventsTopic)
}
