package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/router"
	"github.com/fem/sPof-sub000/internal/routing"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	routesPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "routectl",
		Short:        "Resolve and generate URLs from a named route table",
		Long:         `routectl compiles a YAML routes file into a table of named URL patterns, resolves paths against it, generates URLs from route names and serves both over HTTP.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(versionString() + "\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", getEnvOrDefault(envConfigPath, ""),
		"service configuration file (built-in defaults when empty)")
	flags.StringVarP(&opts.routesPath, "routes", "r", getEnvOrDefault(envRoutesPath, ""),
		"routes file, overrides the configuration")
	flags.StringVar(&opts.logLevel, "log-level", getEnvOrDefault(envLogLevel, ""),
		"log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", getEnvOrDefault(envLogFormat, ""),
		"log format (json, console)")

	cmd.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newReverseCmd(opts),
		newRoutesCmd(opts),
		newCheckCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads the service configuration and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.ServiceConfig, error) {
	cfg := config.DefaultServiceConfig()
	if o.configPath != "" {
		loaded, err := config.LoadServiceConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if o.routesPath != "" {
		cfg.Routes = o.routesPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}

	if err := config.ValidateServiceConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootLogger is used until the configuration is known. It honors the
// log flags only.
func (o *rootOptions) bootLogger() observability.Logger {
	logCfg := observability.DefaultLogConfig()
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		logCfg.Format = o.logFormat
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// initLogger creates the logger described by cfg and makes it global.
func initLogger(cfg config.LoggingConfig) (observability.Logger, error) {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: cfg.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	observability.SetGlobalLogger(logger)
	return logger, nil
}

// session is the state shared by the offline subcommands.
type session struct {
	cfg    *config.ServiceConfig
	logger observability.Logger
	table  *router.Table
}

// openSession loads the configuration and compiles the routes file.
func (o *rootOptions) openSession() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	table, err := routing.Build(cfg.Routes)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, table: table}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
