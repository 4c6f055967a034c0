// Package cache is the persistence port of the entity store.
//
// A Storage keeps string snapshots under string keys. The entity client
// stores the JSON of FindAll(type) under Key(prefix, type) after every change
// and reloads it, silently, when it starts.
//
// # Backends
//
//   - MemoryStorage: process-local map, mainly for tests.
//   - DatabaseStorage: GORM table entity_cache (mysql or sqlite).
//   - ObjectStorage: one object per key in a MinIO / S3 bucket.
package cache
