package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"assetshare/pkg/client"
	"assetshare/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL        string
	HTTPClientTimeout time.Duration

	Port       string
	InstanceID string

	TokenStore string
	CacheStore string
	CacheTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	EventsEnabled bool
	EventsTopic   string

	CORSAllowedOrigins []string

	LoginRateLimitRequests int
	LoginRateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int
	MaxUploadSize  int
	MaxImageSize   int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads configuration from the environment, after merging a .env file
// when one is present. Invalid configuration is fatal.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config without validating it.
func FromEnv(serviceName string) *Config {
	return &Config{
		APIBaseURL:        strings.TrimRight(getEnvStr(EnvAPIBaseURL, DefaultAPIBaseURL), "/"),
		HTTPClientTimeout: getEnvDuration(EnvHTTPClientTimeout, 0),

		Port:       getEnvStr(EnvPort, DefaultPort),
		InstanceID: getEnvStr(EnvInstanceID, uuid.NewString()),

		TokenStore: strings.ToLower(getEnvStr(EnvTokenStore, DefaultTokenStore)),
		CacheStore: strings.ToLower(getEnvStr(EnvCacheStore, DefaultCacheStore)),
		CacheTTL:   getEnvDuration(EnvCacheTTL, DefaultCacheTTL),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		EventsEnabled: getEnvBool(EnvEventsEnabled, false),
		EventsTopic:   getEnvStr(EnvEventsTopic, DefaultEventsTopic),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		LoginRateLimitRequests: getEnvNum(EnvLoginRateLimitRequests, DefaultLoginRateLimitRequests),
		LoginRateLimitWindow:   getEnvDuration(EnvLoginRateLimitWindow, DefaultLoginRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:  getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),
		MaxImageSize:   getEnvNum(EnvMaxImageSize, DefaultMaxImageSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

// NeedsRedis reports whether any store is backed by Redis.
func (cfg *Config) NeedsRedis() bool {
	return cfg.TokenStore == StoreRedis || cfg.CacheStore == StoreRedis
}

func (cfg *Config) NeedsMongo() bool {
	return cfg.TokenStore == StoreMongo
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("APIBaseURL must be an absolute http(s) URL, got: %s", cfg.APIBaseURL))
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !validStore(cfg.TokenStore, StoreMemory, StoreRedis, StoreMongo) {
		errors = append(errors, fmt.Sprintf("TokenStore must be one of memory, redis, mongo, got: %s", cfg.TokenStore))
	}
	if !validStore(cfg.CacheStore, StoreMemory, StoreRedis) {
		errors = append(errors, fmt.Sprintf("CacheStore must be one of memory, redis, got: %s", cfg.CacheStore))
	}
	if cfg.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CacheTTL must be positive, got: %s", cfg.CacheTTL))
	}

	if cfg.NeedsRedis() && cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty when a redis store is selected")
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if cfg.NeedsMongo() {
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if cfg.EventsEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if cfg.HTTPClientTimeout < 0 {
		errors = append(errors, fmt.Sprintf("HTTPClientTimeout cannot be negative, got: %s", cfg.HTTPClientTimeout))
	}
	if cfg.LoginRateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("LoginRateLimitRequests must be positive, got: %d", cfg.LoginRateLimitRequests))
	}
	if cfg.LoginRateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("LoginRateLimitWindow must be positive, got: %s", cfg.LoginRateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize < cfg.MaxRequestSize {
		errors = append(errors, fmt.Sprintf("MaxUploadSize (%d) must be >= MaxRequestSize (%d)", cfg.MaxUploadSize, cfg.MaxRequestSize))
	}
	if cfg.MaxImageSize <= 0 || cfg.MaxImageSize > cfg.MaxUploadSize {
		errors = append(errors, fmt.Sprintf("MaxImageSize must be positive and <= MaxUploadSize (%d), got: %d", cfg.MaxUploadSize, cfg.MaxImageSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"api_base_url", cfg.APIBaseURL,
		"http_client_timeout", cfg.HTTPClientTimeout,
		"port", cfg.Port,
		"instance_id", cfg.InstanceID,
		"token_store", cfg.TokenStore,
		"cache_store", cfg.CacheStore,
		"cache_ttl", cfg.CacheTTL,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"login_rate_limit_requests", cfg.LoginRateLimitRequests,
		"login_rate_limit_window", cfg.LoginRateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"max_image_size", cfg.MaxImageSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func validStore(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnvStr(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
