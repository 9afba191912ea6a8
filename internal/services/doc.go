// Package services implements the application layer between the HTTP
// handlers, the CLI and the import pipeline.
//
// # Services
//
//	- ImportService: validates preview requests, runs imports, caches
//	  previews by request fingerprint and records import metrics
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// ImportService translates pipeline failures into *errors.AppError values
// that keep the original error as their cause:
//
//	- invalid requests: ErrTypeValidation wrapping ErrInvalidInput, with the
//	  field errors under the "errors" context key
//	- unknown platform: ErrTypeNotFound wrapping dataprocessing.ErrUnknownPlatform
//	- unusable input: ErrTypeParsing wrapping *dataprocessing.FormatError
//
// Row-level problems are not errors. They are reported in the ImportResult.
package services
