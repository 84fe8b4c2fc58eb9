// Package observability provides logging, metrics, and tracing
// for the routing service.
//
// # Logging
//
// The Logger interface provides structured logging over zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Error("no route found", observability.String("path", path))
//
// # Metrics
//
// Metrics owns a private Prometheus registry. Other packages register
// their collectors with it so a single handler exposes everything:
//
//	metrics := observability.NewMetrics("routing")
//	metrics.MustRegisterCollector(router.Collectors()...)
//	http.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
// OpenTelemetry tracing with optional OTLP gRPC export and W3C trace
// context propagation.
package observability
