package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "schema.yaml", cfg.Store.SchemaFile)
	assert.Equal(t, 150, cfg.Store.DebounceMS)
	assert.Equal(t, 30, cfg.Sync.TimeoutSeconds)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, "entity", cfg.Cache.Prefix)
	assert.Equal(t, "entity-cache", cfg.Storage.Bucket)
	assert.Equal(t, "snapshots", cfg.Storage.Folder)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store:
  api_url: https://api.example.com
  debounce_ms: 50
cache:
  backend: memory
sync:
  headers: "Authorization=Token abc"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("STORE_DEBOUNCE_MS", "75")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Store.APIURL)
	assert.Equal(t, 75, cfg.Store.DebounceMS)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, map[string]string{"Authorization": "Token abc"}, cfg.Sync.HeaderMap())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_API_KEY=from-dotenv\n"), 0o600))
	t.Setenv("SERVER_API_KEY", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Server.ApiKey)
}

func TestLoadConfig_InvalidBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
