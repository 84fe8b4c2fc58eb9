package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
)

// Common cache errors.
var (
	// ErrCacheMiss indicates that the key was not found in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheDisabled indicates that caching is disabled.
	ErrCacheDisabled = errors.New("cache disabled")

	// ErrCacheUnavailable indicates that the backend is failing and the
	// circuit breaker rejected the call.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrInvalidConfig indicates that the cache configuration is invalid.
	ErrInvalidConfig = errors.New("invalid cache configuration")
)

// Backend names used in logs, spans and metric labels.
const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendDisabled = "disabled"
)

// cacheTracerName is the OpenTelemetry tracer name for cache operations.
const cacheTracerName = "routectl/cache"

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. Returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A TTL of 0 uses the
	// backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	Close() error
}

// New creates a cache for the configured backend.
func New(cfg *config.CacheConfig, logger observability.Logger) (Cache, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	if logger == nil {
		logger = observability.NopLogger()
	}

	if !cfg.Enabled {
		logger.Info("table cache disabled")
		return NewDisabled(), nil
	}

	switch cfg.Type {
	case config.CacheTypeMemory, "":
		return NewMemory(cfg, logger), nil
	case config.CacheTypeRedis:
		return NewRedis(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown cache type %q", ErrInvalidConfig, cfg.Type)
	}
}

// disabledCache is a cache that always returns ErrCacheDisabled.
type disabledCache struct{}

// NewDisabled returns a cache that stores nothing.
func NewDisabled() Cache {
	return disabledCache{}
}

func (disabledCache) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheDisabled
}

func (disabledCache) Set(context.Context, string, []byte, time.Duration) error {
	return ErrCacheDisabled
}

func (disabledCache) Delete(context.Context, string) error {
	return ErrCacheDisabled
}

func (disabledCache) Exists(context.Context, string) (bool, error) {
	return false, ErrCacheDisabled
}

func (disabledCache) Close() error {
	return nil
}
