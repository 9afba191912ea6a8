// Package middleware holds the HTTP middleware chain used by the API router:
// request ids, structured request logging, panic recovery, rate limiting,
// body size caps, CORS, security headers and OpenTelemetry instrumentation.
//
// Failures are answered as RFC 7807 problem documents from the errors package.
package middleware
