// Package errors defines the API error model and its RFC 7807 rendering.
//
// Handlers return *APIError values for request-level failures. Services
// return *AppError values whose Type selects the HTTP status. ErrorHandler
// converts either into ProblemDetails.
package errors
