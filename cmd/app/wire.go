//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/nuvia/nutrition-advisor/internal/bootstrap"
	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/domain/rules"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
	"github.com/nuvia/nutrition-advisor/internal/infra/config"
	httpiface "github.com/nuvia/nutrition-advisor/internal/interface/http"
	"github.com/nuvia/nutrition-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		scoring.NewHybridEngine,
		rules.NewEngine,
		provideRecommendConfig,
		provideAdminAuthConfig,
		provideChatClient,
		providePostgresPool,
		provideConfigRepository,
		provideReviewRepository,
		provideCommerceRepository,
		provideReportStore,
		provideCommerceResolver,
		provideReportReader,
		recommend.NewService,
		configcenter.NewService,
		review.NewService,
		adminauth.NewService,
		httpiface.NewHandler,
		httpiface.NewAdminHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
