// Package retry runs an operation with exponential backoff and jitter.
//
// The Redis table cache uses it to ride out transient connection
// errors before the circuit breaker counts a failure:
//
//	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
//	    return client.Set(ctx, key, value, ttl).Err()
//	}, nil)
//
// Wrap an error with Permanent to stop retrying immediately.
package retry
