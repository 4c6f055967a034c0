package cmd

import (
	"context"
	"fmt"

	"entity-store/core/cache"
	"entity-store/core/config"
	"entity-store/core/database"
	"entity-store/core/logger"
	"entity-store/core/schema"
	"entity-store/core/storage"

	"go.uber.org/zap"
)

// bootstrap loads the configuration and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logg, nil
}

// loadRegistry reads the schema file and applies the configured overrides.
func loadRegistry(cfg *config.Config) (*schema.Registry, error) {
	sc, err := schema.ReadFile(cfg.Store.SchemaFile)
	if err != nil {
		return nil, err
	}
	if cfg.Store.APIURL != "" {
		sc.APIURL = cfg.Store.APIURL
	}
	if cfg.Store.IDAttribute != "" {
		sc.IDAttribute = cfg.Store.IDAttribute
	}
	return schema.New(sc)
}

// openCache builds the configured snapshot backend. A nil storage means
// caching is disabled.
func openCache(ctx context.Context, cfg *config.Config, logg *zap.Logger) (cache.Storage, error) {
	switch cfg.Cache.Backend {
	case cache.BackendNone, "":
		return nil, nil
	case cache.BackendMemory:
		return cache.NewMemoryStorage(), nil
	case cache.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		s := cache.NewDatabaseStorage(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		logg.Info("Using database cache", zap.String("driver", cfg.Database.Driver))
		return s, nil
	case cache.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		logg.Info("Using object storage cache", zap.String("bucket", cfg.Storage.Bucket))
		return cache.NewObjectStorage(client, cfg.Storage.Bucket, cfg.Storage.SnapshotFolder()), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
