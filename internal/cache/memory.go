package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
)

const (
	defaultMemoryTTL      = 24 * time.Hour
	defaultMemoryEntries  = 64
	memoryCleanupInterval = 10 * time.Minute
)

// memoryCache keeps values in process memory on top of go-cache.
type memoryCache struct {
	logger     observability.Logger
	cache      *gocache.Cache
	defaultTTL time.Duration
	maxEntries int
}

// NewMemory creates an in-process cache. Entries beyond MaxEntries
// evict the entry closest to expiry.
func NewMemory(cfg *config.CacheConfig, logger observability.Logger) Cache {
	if logger == nil {
		logger = observability.NopLogger()
	}

	ttl := cfg.TTL.Duration()
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMemoryEntries
	}

	c := &memoryCache{
		logger:     logger,
		cache:      gocache.New(ttl, memoryCleanupInterval),
		defaultTTL: ttl,
		maxEntries: maxEntries,
	}

	logger.Info("memory cache initialized",
		observability.Int("maxEntries", maxEntries),
		observability.Duration("defaultTTL", ttl))

	return c
}

func startSpan(ctx context.Context, op, backend, key string) (context.Context, trace.Span) {
	return otel.Tracer(cacheTracerName).Start(ctx, "cache."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("cache.backend", backend),
			attribute.String("cache.key", key),
		),
	)
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := startSpan(ctx, "Get", backendMemory, key)
	defer span.End()
	defer GetMetrics().observe(backendMemory, "get", time.Now())

	value, found := c.cache.Get(key)
	if !found {
		GetMetrics().missesTotal.WithLabelValues(backendMemory).Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		c.logger.Error("wrong type in memory cache", observability.String("key", key))
		c.cache.Delete(key)
		GetMetrics().missesTotal.WithLabelValues(backendMemory).Inc()
		return nil, ErrCacheMiss
	}

	GetMetrics().hitsTotal.WithLabelValues(backendMemory).Inc()
	span.SetAttributes(
		attribute.Bool("cache.hit", true),
		attribute.Int("cache.value_size", len(data)),
	)
	c.logger.Debug("cache hit", observability.String("key", key))

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, span := startSpan(ctx, "Set", backendMemory, key)
	defer span.End()
	defer GetMetrics().observe(backendMemory, "set", time.Now())

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if _, exists := c.cache.Get(key); !exists {
		c.makeRoom()
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	c.cache.Set(key, stored, ttl)

	size := c.cache.ItemCount()
	GetMetrics().sizeGauge.WithLabelValues(backendMemory).Set(float64(size))
	c.logger.Debug("cache set",
		observability.String("key", key),
		observability.Duration("ttl", ttl),
		observability.Int("size", size))
	return nil
}

// makeRoom drops expired entries and, if the cache is still full, the
// entry that expires first.
func (c *memoryCache) makeRoom() {
	if c.cache.ItemCount() < c.maxEntries {
		return
	}
	c.cache.DeleteExpired()

	for c.cache.ItemCount() >= c.maxEntries {
		var victim string
		var earliest int64
		found := false
		for k, item := range c.cache.Items() {
			if !found || item.Expiration < earliest {
				victim, earliest, found = k, item.Expiration, true
			}
		}
		if !found {
			return
		}
		c.cache.Delete(victim)
		c.logger.Debug("cache evicted", observability.String("key", victim))
	}
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	_, span := startSpan(ctx, "Delete", backendMemory, key)
	defer span.End()
	defer GetMetrics().observe(backendMemory, "delete", time.Now())

	c.cache.Delete(key)
	GetMetrics().sizeGauge.WithLabelValues(backendMemory).Set(float64(c.cache.ItemCount()))
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, span := startSpan(ctx, "Exists", backendMemory, key)
	defer span.End()
	defer GetMetrics().observe(backendMemory, "exists", time.Now())

	_, found := c.cache.Get(key)
	return found, nil
}

func (c *memoryCache) Close() error {
	c.cache.Flush()
	GetMetrics().sizeGauge.WithLabelValues(backendMemory).Set(0)
	return nil
}
