package entities

import "time"

// Config holds configuration for the entity client.
type Config struct {
	// APIURL overrides the schema's apiUrl when set.
	APIURL string `mapstructure:"api_url" default:""`
	// IDAttribute overrides the schema's store-wide idAttribute when set.
	IDAttribute string `mapstructure:"id_attribute" default:""`
	// SchemaFile is the YAML, JSON or CUE schema.
	SchemaFile string `mapstructure:"schema_file" default:"schema.yaml"`
	// DebounceMS is the change notification quiet period.
	DebounceMS int `mapstructure:"debounce_ms" default:"150"`
}

// Debounce returns the notification window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
