package config

import (
	"errors"
	"reflect"
	"strings"

	"entity-store/core/cache"
	"entity-store/core/database"
	"entity-store/core/logger"
	"entity-store/core/server"
	"entity-store/core/storage"
	"entity-store/core/transport"
	"entity-store/feature/entities"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the inspection API.
	Server server.Config `mapstructure:"server"`
	// Store holds the schema location and notification settings.
	Store entities.Config `mapstructure:"store"`
	// Sync holds configuration for outbound API calls.
	Sync transport.Config `mapstructure:"sync"`
	// Cache selects the snapshot backend.
	Cache cache.Config `mapstructure:"cache"`
	// Storage holds configuration for the object storage backend.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the database backend.
	Database database.Config `mapstructure:"database"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from a .env file, an optional config.yaml
// in path and the environment, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// STORE_API_URL -> store.api_url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Cache.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every 'mapstructure' key with
// its 'default' tag value, so AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
