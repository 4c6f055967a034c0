package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entity-store/core/loader"
	"entity-store/core/logger"
	"entity-store/core/metrics"
	"entity-store/core/middleware/auth"
	"entity-store/core/middleware/rayid"
	"entity-store/core/transport"
	"entity-store/feature/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the entity inspection server",
	Long: `Loads the schema, restores the configured cache and serves the store over
HTTP. POST /entities/:type/refresh pulls a type from the remote API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	logg.Info("Loaded schema", zap.String("file", cfg.Store.SchemaFile), zap.Strings("types", registry.Types()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	sender := transport.NewHTTPSender(cfg.Sync,
		transport.WithObserver(m),
		transport.WithLogger(logg),
	)

	opts := []entities.Option{
		entities.WithLogger(logg),
		entities.WithMetrics(m),
		entities.WithDebounce(cfg.Store.Debounce()),
	}
	storage, err := openCache(ctx, cfg, logg)
	if err != nil {
		return err
	}
	if storage != nil {
		opts = append(opts, entities.WithCache(storage, cfg.Cache.Prefix))
	}

	client, err := entities.New(registry, sender, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line carries it
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		l.Info("Request completed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get(cfg.Server.MetricsPath, adaptor.HTTPHandler(m.Handler()))
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{cfg.Server.MetricsPath}}))

	mgr := loader.NewManager(logg)
	mgr.Register(entities.NewFeature(client, logg))
	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
		errCh <- app.Listen(cfg.Server.Address())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sig:
	}

	logg.Info("Shutting down server...")
	return app.Shutdown()
}
