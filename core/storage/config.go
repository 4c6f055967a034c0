package storage

import "strings"

// Config holds configuration for the MinIO snapshot backend.
type Config struct {
	// Endpoint is host:port of the service; a scheme prefix is stripped.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL enables TLS.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds the cached snapshots. It is created on startup if missing.
	Bucket string `mapstructure:"bucket" default:"entity-cache"`
	// Folder is the object name prefix snapshots are written under.
	Folder string `mapstructure:"folder" default:"snapshots"`
	// Region is used when the bucket has to be created.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// SnapshotFolder returns Folder without surrounding slashes.
func (c Config) SnapshotFolder() string {
	return strings.Trim(c.Folder, "/")
}
