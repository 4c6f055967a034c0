// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber app; this package only defines the port,
// the API key guarding the entity routes and the metrics path.
package server
