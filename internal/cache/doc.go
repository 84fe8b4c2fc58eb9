// Package cache stores compiled route tables between builds.
//
// Three backends implement Cache:
//
//   - memory: process-local, on top of github.com/patrickmn/go-cache
//   - redis: shared between processes, with retry and a circuit breaker
//   - disabled: every call returns ErrCacheDisabled
//
// Every backend records OpenTelemetry spans and Prometheus metrics per
// operation. Register the collectors returned by GetMetrics().Collectors()
// with the service registry to expose them.
package cache
