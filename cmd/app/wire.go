//go:build wireinject
// +build wireinject

package main

import (
	"vocalis/config"
	"vocalis/internal/command"
	"vocalis/internal/cron"
	"vocalis/internal/database"
	"vocalis/internal/handler"
	"vocalis/internal/inference"
	"vocalis/internal/middleware"
	"vocalis/internal/router"
	"vocalis/internal/service"
	"vocalis/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(wire.Build(command.ProviderSet, inference.NewRegistry))
}
