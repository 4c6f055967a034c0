package cache

import (
	"context"
	"fmt"
)

// DefaultPrefix namespaces cache keys when none is configured.
const DefaultPrefix = "entity"

const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendDatabase = "database"
	BackendObject   = "object"
)

// Config holds configuration for the snapshot cache.
type Config struct {
	// Backend selects the storage (none, memory, database, object).
	Backend string `mapstructure:"backend" default:"none"`
	// Prefix namespaces the keys.
	Prefix string `mapstructure:"prefix" default:"entity"`
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendMemory, BackendDatabase, BackendObject, "":
		return nil
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// Storage stores snapshots by key.
type Storage interface {
	// GetItem returns the value stored under key; ok is false when absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Purge deletes every key starting with prefix + "-" and returns how many.
	Purge(ctx context.Context, prefix string) (int, error)
}

// Key returns the storage key of a type's snapshot.
func Key(prefix, typ string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + typ
}
