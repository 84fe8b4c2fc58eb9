package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
)

const (
	defaultBreakerThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
)

// breaker trips after consecutive backend failures so that a dead
// Redis costs callers nothing but a rebuild of the table.
type breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger observability.Logger
}

func newBreaker(name string, cfg config.BreakerConfig, logger observability.Logger) *breaker {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	b := &breaker{logger: logger}
	thresholdU32 := safeIntToUint32(threshold)

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= thresholdU32
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrCacheMiss) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("cache circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
			GetMetrics().breakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	GetMetrics().breakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return b
}

// execute runs fn through the breaker. A rejected call returns
// ErrCacheUnavailable.
func (b *breaker) execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCacheUnavailable
	}
	return err
}

func (b *breaker) state() gobreaker.State {
	return b.cb.State()
}

// safeIntToUint32 safely converts int to uint32.
func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n) //nolint:gosec // bounds checked above
}
