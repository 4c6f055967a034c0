// Package middleware groups the Fiber middleware of the HTTP API.
//
//   - auth: API key validation (X-API-Key header or api_key query).
//   - rayid: per-request id stored in locals and echoed in X-Ray-ID.
//
// rayid must be registered first so every later log line carries the id.
package middleware
