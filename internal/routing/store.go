package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fem/sPof-sub000/internal/cache"
	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/router"
)

// envelope is the cached form of a table: the snapshot and the source
// token it was built from.
type envelope struct {
	Token    string           `json:"token"`
	Snapshot *router.Snapshot `json:"snapshot"`
}

// TableStore persists route table snapshots in a cache.Cache keyed by
// routes file and guarded by the file's source token.
type TableStore struct {
	cache  cache.Cache
	ttl    time.Duration
	logger observability.Logger
}

// NewTableStore wraps c. A zero ttl uses the cache default.
func NewTableStore(c cache.Cache, ttl time.Duration, logger observability.Logger) *TableStore {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &TableStore{cache: c, ttl: ttl, logger: logger}
}

// Get returns the snapshot stored under key if it was built from the
// source version identified by token. A stale or unreadable entry is
// reported as cache.ErrCacheMiss.
func (s *TableStore) Get(ctx context.Context, key, token string) (*router.Snapshot, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			GetMetrics().cacheLookups.WithLabelValues(lookupMiss).Inc()
		} else {
			GetMetrics().cacheLookups.WithLabelValues(lookupError).Inc()
		}
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Snapshot == nil {
		GetMetrics().cacheLookups.WithLabelValues(lookupCorrupt).Inc()
		s.logger.Warn("discarding unreadable table cache entry",
			observability.String("key", key),
			observability.Error(err))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Debug("failed to delete table cache entry",
				observability.String("key", key),
				observability.Error(delErr))
		}
		return nil, cache.ErrCacheMiss
	}

	if env.Token != token {
		GetMetrics().cacheLookups.WithLabelValues(lookupStale).Inc()
		s.logger.Debug("table cache entry is stale",
			observability.String("key", key),
			observability.String("cached", env.Token),
			observability.String("current", token))
		return nil, cache.ErrCacheMiss
	}

	GetMetrics().cacheLookups.WithLabelValues(lookupHit).Inc()
	return env.Snapshot, nil
}

// Set stores snap under key, tagged with token.
func (s *TableStore) Set(ctx context.Context, key, token string, snap *router.Snapshot) error {
	data, err := json.Marshal(envelope{Token: token, Snapshot: snap})
	if err != nil {
		return fmt.Errorf("failed to encode table snapshot: %w", err)
	}
	return s.cache.Set(ctx, key, data, s.ttl)
}
