// Package logger builds the zap logger used across the entity store.
//
// Level selects development (debug) or production defaults; Format picks
// json or console encoding. WithRayID attaches the request id set by the
// rayid middleware to a logger so every line of a request correlates.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
