// Package observability provides structured logging, Prometheus metrics,
// health checks, and OpenTelemetry tracing.
//
// # Structured Logging
//
// Create a JSON logger backed by slog:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("group_id", groupID).Info("group created")
//
// Request-scoped loggers pick up the request ID and user ID stored by the
// middleware:
//
//	logger := observability.FromContext(r.Context())
//
// # Prometheus Metrics
//
// Register metrics and the /metrics endpoint:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	observability.RegisterMetricsEndpoint(mux, registry)
//
//	metrics.HTTPRequestsTotal.WithLabelValues("GET", "/recipes", "200").Inc()
//	metrics.RecipesTotal.WithLabelValues("published").Set(float64(count))
//
// # Health Checks
//
// The health checker probes Postgres and Redis. Redis failures degrade the
// status instead of failing it, since the import quota fails open.
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # OpenTelemetry
//
// Tracing exports over OTLP gRPC when enabled:
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "potluck-api",
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/contextkeys: context keys shared with the middleware
package observability
