// Package http implements the HTTP handlers of the import API.
// Handlers stay thin: they decode requests, call the services package and
// render JSON. Every failure goes through errors.ErrorHandler so clients
// always receive RFC 7807 problem details.
//
// # Routes
//
//	GET  /platforms            registered platforms
//	GET  /platforms/{id}       one platform, 404 when unknown
//	POST /imports/preview      import a CSV or base64 xlsx export
//	GET  /health[/ready|/live|/version]
//
// Preview responses carry the request fingerprint in X-Import-Fingerprint
// and HIT or MISS in X-Cache.
package http
