// Package infrastructure provides the process-wide ambient services: the
// JSON slog logger with trace id injection, and OpenTelemetry tracing and
// metrics with a Prometheus scrape handler.
//
// Import and HTTP instruments are created from the configured meter with
// NewImportMetrics and NewHTTPMetrics. Both tolerate a nil receiver so callers
// can run without metrics.
package infrastructure
