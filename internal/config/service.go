package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fem/sPof-sub000/internal/util"
)

// Defaults for the service configuration.
const (
	DefaultServerAddress      = ":8080"
	DefaultReadTimeout        = 5 * time.Second
	DefaultWriteTimeout       = 10 * time.Second
	DefaultShutdownTimeout    = 15 * time.Second
	DefaultRateLimitRPS       = 100
	DefaultRateLimitBurst     = 200
	DefaultCacheTTL           = 24 * time.Hour
	DefaultCacheMaxEntries    = 64
	DefaultCacheKeyPrefix     = "routectl:"
	DefaultRedisPoolSize      = 10
	DefaultRedisTimeout       = 2 * time.Second
	DefaultBreakerThreshold   = 5
	DefaultBreakerTimeout     = 30 * time.Second
	DefaultWatchDebounce      = 100 * time.Millisecond
	DefaultTracingServiceName = "routectl"
)

// Cache backend types.
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// ServiceConfig is the configuration of the routectl service.
type ServiceConfig struct {
	// Routes is the path of the routes file.
	Routes  string        `yaml:"routes" json:"routes"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// CacheConfig configures where compiled route tables are stored.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled"`
	Type       string        `yaml:"type" json:"type"`
	TTL        Duration      `yaml:"ttl,omitempty" json:"ttl,omitempty"`
	MaxEntries int           `yaml:"maxEntries,omitempty" json:"maxEntries,omitempty"`
	KeyPrefix  string        `yaml:"keyPrefix,omitempty" json:"keyPrefix,omitempty"`
	Redis      RedisConfig   `yaml:"redis,omitempty" json:"redis,omitempty"`
	Breaker    BreakerConfig `yaml:"breaker,omitempty" json:"breaker,omitempty"`
}

// RedisConfig contains Redis-specific cache configuration.
type RedisConfig struct {
	// URL format: redis://[user:password@]host:port[/db]
	URL            string   `yaml:"url" json:"url"`
	PoolSize       int      `yaml:"poolSize,omitempty" json:"poolSize,omitempty"`
	ConnectTimeout Duration `yaml:"connectTimeout,omitempty" json:"connectTimeout,omitempty"`
	ReadTimeout    Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout   Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	MaxRetries     int      `yaml:"maxRetries,omitempty" json:"maxRetries,omitempty"`
}

// BreakerConfig configures the circuit breaker guarding the Redis cache.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the breaker.
	Threshold int `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	// Timeout is how long the breaker stays open before probing again.
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ServerConfig configures the HTTP inspection API.
type ServerConfig struct {
	Address         string          `yaml:"address" json:"address"`
	ReadTimeout     Duration        `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration        `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration        `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
	RateLimit       RateLimitConfig `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"`
}

// RateLimitConfig configures the token bucket in front of the API.
// A zero RPS disables rate limiting.
type RateLimitConfig struct {
	RPS   int `yaml:"rps" json:"rps"`
	Burst int `yaml:"burst" json:"burst"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Endpoint     string  `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty" json:"samplingRate,omitempty"`
	ServiceName  string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
}

// WatchConfig configures hot reload of the routes file.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	Debounce Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// DefaultServiceConfig returns the configuration used when no file is given.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Routes: "routes.yaml",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Type:       CacheTypeMemory,
			TTL:        Duration(DefaultCacheTTL),
			MaxEntries: DefaultCacheMaxEntries,
			KeyPrefix:  DefaultCacheKeyPrefix,
			Redis: RedisConfig{
				PoolSize:       DefaultRedisPoolSize,
				ConnectTimeout: Duration(DefaultRedisTimeout),
				ReadTimeout:    Duration(DefaultRedisTimeout),
				WriteTimeout:   Duration(DefaultRedisTimeout),
				MaxRetries:     3,
			},
			Breaker: BreakerConfig{
				Threshold: DefaultBreakerThreshold,
				Timeout:   Duration(DefaultBreakerTimeout),
			},
		},
		Server: ServerConfig{
			Address:         DefaultServerAddress,
			ReadTimeout:     Duration(DefaultReadTimeout),
			WriteTimeout:    Duration(DefaultWriteTimeout),
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
			RateLimit: RateLimitConfig{
				RPS:   DefaultRateLimitRPS,
				Burst: DefaultRateLimitBurst,
			},
		},
		Tracing: TracingConfig{
			SamplingRate: 1.0,
			ServiceName:  DefaultTracingServiceName,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(DefaultWatchDebounce),
		},
	}
}

// ValidateServiceConfig reports every invalid field at once.
func ValidateServiceConfig(cfg *ServiceConfig) error {
	verr := util.NewValidationError("invalid service configuration")

	if strings.TrimSpace(cfg.Routes) == "" {
		verr.AddField("routes", "routes file path is required")
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "console":
	default:
		verr.AddField("logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format))
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		verr.AddField("logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level))
	}

	validateCache(&cfg.Cache, verr)

	if cfg.Server.Address == "" {
		verr.AddField("server.address", "must not be empty")
	}
	if cfg.Server.RateLimit.RPS < 0 {
		verr.AddField("server.rateLimit.rps", "must not be negative")
	}
	if cfg.Server.RateLimit.RPS > 0 && cfg.Server.RateLimit.Burst <= 0 {
		verr.AddField("server.rateLimit.burst", "must be positive when rps is set")
	}

	if cfg.Tracing.SamplingRate < 0 || cfg.Tracing.SamplingRate > 1 {
		verr.AddField("tracing.samplingRate", "must be between 0 and 1")
	}

	if cfg.Watch.Debounce < 0 {
		verr.AddField("watch.debounce", "must not be negative")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func validateCache(c *CacheConfig, verr *util.ValidationError) {
	if !c.Enabled {
		return
	}

	switch c.Type {
	case CacheTypeMemory:
		if c.MaxEntries < 0 {
			verr.AddField("cache.maxEntries", "must not be negative")
		}
	case CacheTypeRedis:
		if c.Redis.URL == "" {
			verr.AddField("cache.redis.url", "is required for the redis cache")
		} else if u, err := url.Parse(c.Redis.URL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			verr.AddField("cache.redis.url", "must be a redis:// or rediss:// URL")
		}
		if c.Breaker.Threshold < 0 {
			verr.AddField("cache.breaker.threshold", "must not be negative")
		}
	default:
		verr.AddField("cache.type", fmt.Sprintf("unknown backend %q", c.Type))
	}

	if c.TTL < 0 {
		verr.AddField("cache.ttl", "must not be negative")
	}
}
