package config

const (
	EnvAPIBaseURL        = "API_BASE_URL"
	EnvHTTPClientTimeout = "HTTP_CLIENT_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvInstanceID = "INSTANCE_ID"

	EnvTokenStore = "TOKEN_STORE"
	EnvCacheStore = "CACHE_STORE"
	EnvCacheTTL   = "CACHE_TTL"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvEventsTopic   = "EVENTS_TOPIC"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvLoginRateLimitRequests = "LOGIN_RATE_LIMIT_REQUESTS"
	EnvLoginRateLimitWindow   = "LOGIN_RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"
	EnvMaxImageSize   = "MAX_IMAGE_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
