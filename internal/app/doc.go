// Package app wires the import API together and owns its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from .env, environment and an optional YAML file
//	2. Initialize logging and OpenTelemetry
//	3. Build the platform registry, loading extra schemas when configured
//	4. Create the importer, import service and health service
//	5. Mount handlers behind the middleware chain
//	6. Configure the HTTP server
//
// Middleware runs in the order RequestID → RealIP → StripSlashes → OTel →
// Logger → Recoverer → SecurityHeaders → CORS → RateLimiter → MaxBodySize.
// The Prometheus scrape endpoint sits outside that chain.
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Initialization
// errors are returned to the caller; the package never calls os.Exit.
package app
