package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/retry"
)

const (
	defaultRedisTTL  = 24 * time.Hour
	redisPingTimeout = 5 * time.Second
)

// isRetryableRedisError reports whether err is worth another attempt.
func isRetryableRedisError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, redis.Nil) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// redisCache shares compiled tables between processes through Redis.
type redisCache struct {
	logger     observability.Logger
	client     *redis.Client
	defaultTTL time.Duration
	retryCfg   *retry.Config
	breaker    *breaker
}

// NewRedis connects to the configured Redis server.
func NewRedis(cfg *config.CacheConfig, logger observability.Logger) (Cache, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("%w: redis URL is required", ErrInvalidConfig)
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis URL: %w", ErrInvalidConfig, err)
	}
	applyRedisPoolOptions(opts, &cfg.Redis)

	client := redis.NewClient(opts)
	if err := pingRedis(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	ttl := cfg.TTL.Duration()
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}

	c := &redisCache{
		logger:     logger,
		client:     client,
		defaultTTL: ttl,
		retryCfg: &retry.Config{
			MaxRetries:     cfg.Redis.MaxRetries,
			InitialBackoff: retry.DefaultInitialBackoff,
			MaxBackoff:     retry.DefaultMaxBackoff,
			JitterFactor:   retry.DefaultJitterFactor,
		},
		breaker: newBreaker("redis-cache", cfg.Breaker, logger),
	}

	logger.Info("redis cache initialized",
		observability.String("addr", opts.Addr),
		observability.Int("db", opts.DB),
		observability.Duration("defaultTTL", ttl))

	return c, nil
}

func applyRedisPoolOptions(opts *redis.Options, redisCfg *config.RedisConfig) {
	if redisCfg.PoolSize > 0 {
		opts.PoolSize = redisCfg.PoolSize
	}
	if redisCfg.ConnectTimeout > 0 {
		opts.DialTimeout = redisCfg.ConnectTimeout.Duration()
	}
	if redisCfg.ReadTimeout > 0 {
		opts.ReadTimeout = redisCfg.ReadTimeout.Duration()
	}
	if redisCfg.WriteTimeout > 0 {
		opts.WriteTimeout = redisCfg.WriteTimeout.Duration()
	}
	// retries are handled by internal/retry
	opts.MaxRetries = -1
}

func pingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

func (c *redisCache) startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return otel.Tracer(cacheTracerName).Start(ctx, "cache."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cache.backend", backendRedis),
			attribute.String("cache.key", key),
		),
	)
}

// do runs one Redis command with retry inside the circuit breaker.
func (c *redisCache) do(ctx context.Context, op, key string, fn retry.RetryableFunc) error {
	return c.breaker.execute(func() error {
		return retry.Do(ctx, c.retryCfg, fn, &retry.Options{
			ShouldRetry: isRetryableRedisError,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				c.logger.Debug("retrying redis "+op,
					observability.String("key", key),
					observability.Int("attempt", attempt),
					observability.Duration("backoff", backoff),
					observability.Error(err))
			},
		})
	})
}

func (c *redisCache) fail(span trace.Span, op, key string, err error) {
	GetMetrics().errorsTotal.WithLabelValues(backendRedis, op).Inc()
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	c.logger.Error("redis "+op+" failed",
		observability.String("key", key),
		observability.Error(err))
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := c.startSpan(ctx, "Get", key)
	defer span.End()
	defer GetMetrics().observe(backendRedis, "get", time.Now())

	var result []byte
	err := c.do(ctx, "get", key, func(ctx context.Context) error {
		val, getErr := c.client.Get(ctx, key).Bytes()
		if errors.Is(getErr, redis.Nil) {
			return retry.Permanent(ErrCacheMiss)
		}
		if getErr != nil {
			return getErr
		}
		result = val
		return nil
	})

	switch {
	case err == nil:
		GetMetrics().hitsTotal.WithLabelValues(backendRedis).Inc()
		span.SetAttributes(
			attribute.Bool("cache.hit", true),
			attribute.Int("cache.value_size", len(result)),
		)
		return result, nil
	case errors.Is(err, ErrCacheMiss):
		GetMetrics().missesTotal.WithLabelValues(backendRedis).Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrCacheMiss
	default:
		c.fail(span, "get", key, err)
		return nil, err
	}
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := c.startSpan(ctx, "Set", key)
	defer span.End()
	defer GetMetrics().observe(backendRedis, "set", time.Now())

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}
	span.SetAttributes(attribute.Int("cache.value_size", len(value)))

	err := c.do(ctx, "set", key, func(ctx context.Context) error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		c.fail(span, "set", key, err)
		return err
	}

	c.logger.Debug("cache set",
		observability.String("key", key),
		observability.Duration("ttl", ttl),
		observability.Int("size", len(value)))
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	ctx, span := c.startSpan(ctx, "Delete", key)
	defer span.End()
	defer GetMetrics().observe(backendRedis, "delete", time.Now())

	err := c.do(ctx, "delete", key, func(ctx context.Context) error {
		return c.client.Del(ctx, key).Err()
	})
	if err != nil {
		c.fail(span, "delete", key, err)
		return err
	}
	return nil
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	ctx, span := c.startSpan(ctx, "Exists", key)
	defer span.End()
	defer GetMetrics().observe(backendRedis, "exists", time.Now())

	var n int64
	err := c.do(ctx, "exists", key, func(ctx context.Context) error {
		var existsErr error
		n, existsErr = c.client.Exists(ctx, key).Result()
		return existsErr
	})
	if err != nil {
		c.fail(span, "exists", key, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("cache.exists", n > 0))
	return n > 0, nil
}

func (c *redisCache) Close() error {
	c.logger.Info("redis cache closing")
	return c.client.Close()
}
