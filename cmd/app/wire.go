//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/pollen-calendar/internal/bootstrap"
	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/auth"
	"github.com/yanqian/pollen-calendar/internal/infra/config"
	httpiface "github.com/yanqian/pollen-calendar/internal/interface/http"
	"github.com/yanqian/pollen-calendar/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideCatalog,
		provideAllergyConfig,
		providePostgresPool,
		provideUserRepository,
		provideLevelRepository,
		provideForecastStore,
		provideArchive,
		provideChatClient,
		provideShiftClient,
		provideIntensityClient,
		provideAllergyDependencies,
		auth.NewService,
		allergy.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
