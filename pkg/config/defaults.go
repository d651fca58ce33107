package config

import "time"

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000/api"

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultTokenStore = StoreMemory
	DefaultCacheStore = StoreMemory
	DefaultCacheTTL   = 5 * time.Minute

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "assetshare"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultEventsTopic = "assetshare.dashboard.events"

	DefaultCORSAllowedOrigins = "http://localhost:5173"

	DefaultLoginRateLimitRequests = 10
	DefaultLoginRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize  = 10 * 1024 * 1024 // 10MB
	DefaultMaxImageSize   = 5 * 1024 * 1024  // 5MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
