// Package metrics exposes prometheus collectors for the entity store.
//
// Metrics satisfies store.Recorder (ingested and removed records),
// transport.Observer (outbound request latency by method and status) and
// provides an observer for debounced change emissions. Collectors are
// registered on the Registerer passed to New so tests can use a private
// registry.
package metrics
