//go:build wireinject
// +build wireinject

package server

import (
	"github.com/google/wire"
	"github.com/ncobase/taskmanager/config"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/internal/data/repository"
	"github.com/ncobase/taskmanager/internal/handler"
	"github.com/ncobase/taskmanager/internal/service"
	"github.com/ncobase/taskmanager/logging/logger"
)

// InitializeApp wires up the entire application with all dependencies.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	panic(wire.Build(
		// Config providers
		config.ProviderSet,

		// Logger provider
		logger.ProviderSet,

		// Data layer provider
		data.ProviderSet,

		// Repository provider
		repository.NewTaskRepository,

		// Service layer provider
		service.NewService,

		// Handler layer provider
		handler.New,

		// Application constructor
		NewApp,
	))
}
