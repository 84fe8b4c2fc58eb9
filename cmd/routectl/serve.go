package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/cache"
	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/router"
	"github.com/fem/sPof-sub000/internal/routing"
	"github.com/fem/sPof-sub000/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolve and reverse HTTP API",
		Long:  `Serve loads the route table, restoring it from the table cache when possible, serves the HTTP API and reloads the table when the routes file changes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			boot := opts.bootLogger()
			cfg, err := opts.loadConfig()
			if err != nil {
				fatalWithSync(boot, "failed to load configuration", observability.Error(err))
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			logger, err := initLogger(cfg.Logging)
			if err != nil {
				fatalWithSync(boot, "failed to initialize logger", observability.Error(err))
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := initApplication(ctx, cfg, logger)
			return runServer(ctx, app, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address, overrides server.address")
	return cmd
}

// application holds all components of the serve command.
type application struct {
	provider *routing.Provider
	cache    cache.Cache
	server   *server.Server
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

// initApplication builds every component and publishes the first table.
// Configuration errors are fatal; cache errors only disable the cache.
func initApplication(ctx context.Context, cfg *config.ServiceConfig, logger observability.Logger) *application {
	logger.Info("starting routectl",
		observability.String("version", version),
		observability.String("routes", cfg.Routes),
	)

	metrics := observability.NewMetrics("routing")
	metrics.SetBuildInfo(version, gitCommit, buildTime)
	metrics.MustRegisterCollector(router.Collectors()...)
	metrics.MustRegisterCollector(routing.Collectors()...)
	metrics.MustRegisterCollector(cache.GetMetrics().Collectors()...)

	tracer := initTracer(cfg, logger)

	tableCache, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		logger.Warn("table cache unavailable, building tables on every start",
			observability.String("type", cfg.Cache.Type),
			observability.Error(err),
		)
		tableCache = cache.NewDisabled()
	}

	store := routing.NewTableStore(tableCache, cfg.Cache.TTL.Duration(), logger)
	provider := routing.NewProvider(cfg.Routes,
		routing.WithStore(store, cfg.Cache.KeyPrefix),
		routing.WithLogger(logger),
		routing.WithDebounce(cfg.Watch.Debounce.Duration()),
	)
	if err := provider.Load(ctx); err != nil {
		fatalWithSync(logger, "failed to load routes", observability.Error(err))
	}

	return &application{
		provider: provider,
		cache:    tableCache,
		server:   server.New(cfg.Server, provider, logger, metrics),
		metrics:  metrics,
		tracer:   tracer,
	}
}

// initTracer initializes the tracer. A tracer that cannot be set up is
// replaced by a disabled one.
func initTracer(cfg *config.ServiceConfig, logger observability.Logger) *observability.Tracer {
	tracerCfg := observability.TracerConfig{
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		Enabled:      cfg.Tracing.Enabled,
	}

	tracer, err := observability.NewTracer(tracerCfg)
	if err != nil {
		logger.Error("failed to initialize tracer, tracing disabled", observability.Error(err))
		tracer, _ = observability.NewTracer(observability.TracerConfig{ServiceName: tracerCfg.ServiceName})
	}
	return tracer
}

// runServer serves until ctx is done or the listener fails, then shuts
// every component down.
func runServer(
	ctx context.Context,
	app *application,
	cfg *config.ServiceConfig,
	logger observability.Logger,
) error {
	if cfg.Watch.Enabled {
		if err := app.provider.Watch(ctx); err != nil {
			logger.Error("failed to watch routes file, hot reload disabled", observability.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("HTTP server failed", observability.Error(serveErr))
		}
	}

	shutdown(app, cfg.Server.ShutdownTimeout.Duration(), logger)
	return serveErr
}

// shutdown stops the components in reverse start order.
func shutdown(app *application, timeout time.Duration, logger observability.Logger) {
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop HTTP server gracefully", observability.Error(err))
	}

	if err := app.provider.Close(); err != nil {
		logger.Error("failed to stop routes watcher", observability.Error(err))
	}

	if err := app.cache.Close(); err != nil {
		logger.Error("failed to close table cache", observability.Error(err))
	}

	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("routectl stopped")
}

// fatalWithSync flushes the logger before exiting.
func fatalWithSync(logger observability.Logger, msg string, fields ...observability.Field) {
	_ = logger.Sync()
	logger.Fatal(msg, fields...)
	os.Exit(1)
}
