package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncobase/taskmanager/cmd/commands/migrate"
	"github.com/ncobase/taskmanager/config"
	"github.com/ncobase/taskmanager/internal/server"
	"github.com/ncobase/taskmanager/logging/logger"
	"github.com/ncobase/taskmanager/logging/observes"
	"github.com/ncobase/taskmanager/version"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, migrate.ConfPath(cmd))
		},
	}
}

func serve(ctx context.Context, confPath string) error {
	config.SetPath(confPath)
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanupLogger()

	log := logger.StdLogger()
	info := version.GetVersionInfo()
	log.SetVersion(info.Version)
	log.Info(ctx, "Starting task manager", "version", info.Version, "revision", info.Revision, "environment", cfg.Environment)

	shutdownObservers := setupObservers(ctx, cfg, info, log)
	defer shutdownObservers()

	config.Watch(func(c *config.Config) {
		if c.Logger == nil || c.Logger.Level == "" {
			return
		}
		if err := log.SetLevelString(c.Logger.Level); err != nil {
			log.Warn(context.Background(), "Ignoring invalid log level from config", "level", c.Logger.Level, "error", err)
			return
		}
		log.Info(context.Background(), "Config reloaded", "level", c.Logger.Level)
	})

	server.SetMode(cfg.Environment)
	app, cleanup, err := server.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	// Migrate through the app's own connection: a ":memory:" store only
	// exists for as long as that connection does.
	if cfg.Data != nil && cfg.Data.Database != nil && cfg.Data.Database.Migrate {
		if err := app.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	return app.Run(ctx)
}

// setupObservers starts Sentry and tracing when configured and returns a
// function flushing both.
func setupObservers(ctx context.Context, cfg *config.Config, info version.Info, log *logger.Logger) func() {
	var shutdownTracer func(context.Context) error
	if o := cfg.Observes; o != nil {
		if o.Sentry != nil && o.Sentry.Endpoint != "" {
			if err := observes.NewSentry(&observes.SentryOptions{
				Dsn:         o.Sentry.Endpoint,
				Name:        cfg.AppName,
				Release:     info.Version,
				Environment: cfg.Environment,
				SampleRate:  o.Sentry.SampleRate,
			}); err != nil {
				log.Warn(ctx, "Failed to initialize Sentry", "error", err)
			}
		}
		if o.Tracer != nil && o.Tracer.Endpoint != "" {
			var err error
			shutdownTracer, err = observes.NewTracer(ctx, &observes.TracerOption{
				URL:                o.Tracer.Endpoint,
				Name:               cfg.AppName,
				Version:            info.Version,
				Branch:             info.Branch,
				Revision:           info.Revision,
				Environment:        cfg.Environment,
				SamplingRate:       o.Tracer.SamplingRate,
				BatchTimeout:       o.Tracer.BatchTimeout,
				ExportTimeout:      o.Tracer.ExportTimeout,
				MaxExportBatchSize: o.Tracer.MaxExportBatchSize,
			})
			if err != nil {
				log.Warn(ctx, "Failed to initialize tracer", "error", err)
			}
		}
	}

	return func() {
		observes.FlushSentry(2 * time.Second)
		if shutdownTracer == nil {
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn(sctx, "Failed to shut down tracer", "error", err)
		}
	}
}
