// Package server assembles the HTTP application: router, middleware and
// the http.Server lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/taskmanager/config"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/internal/data/schema"
	"github.com/ncobase/taskmanager/internal/handler"
	"github.com/ncobase/taskmanager/logging/logger"
	"github.com/ncobase/taskmanager/net/resp"
	"github.com/ncobase/taskmanager/validation/validator"
)

const defaultShutdownTimeout = 30 * time.Second

// App represents the main application.
type App struct {
	config *config.Server
	logger *logger.Logger
	data   *data.Data
	engine *gin.Engine
	server *http.Server
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Server, l *logger.Logger, d *data.Data, h *handler.Handler) *App {
	validator.RegisterGin()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(cfg.CORS))
	engine.Use(traceMiddleware())
	engine.Use(loggerMiddleware(l))

	engine.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotAllowed("method not allowed"))
	})

	h.RegisterRoutes(engine)

	return &App{
		config: cfg,
		logger: l,
		data:   d,
		engine: engine,
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// SetMode sets the gin mode from the environment name.
func SetMode(environment string) {
	switch environment {
	case gin.DebugMode, gin.TestMode, gin.ReleaseMode:
		gin.SetMode(environment)
	case "development", "dev":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Migrate creates the tasks schema on the store the app serves from.
func (a *App) Migrate(ctx context.Context) error {
	if err := schema.Up(ctx, a.data); err != nil {
		return err
	}
	a.logger.Info(ctx, "Migration applied", "direction", "up", "dialect", a.data.Dialect())
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "Starting server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.logger.Error(ctx, "Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "Shutting down server...")

	timeout := a.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(shutdownCtx, "Server exited")
	return nil
}
