//go:build wireinject
// +build wireinject

package di

import (
	"context"

	wire "github.com/google/wire"

	"github.com/vladimiradmaev/fitscan-coach/internal/analysiscache"
	"github.com/vladimiradmaev/fitscan-coach/internal/app"
	"github.com/vladimiradmaev/fitscan-coach/internal/config"
	"github.com/vladimiradmaev/fitscan-coach/internal/metrics"
	"github.com/vladimiradmaev/fitscan-coach/internal/repository"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

func InitApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {

	wire.Build(
		ProvideStore,
		metrics.New,
		ProvideNutritionAI,
		ProvideAnalysisCache,
		wire.Bind(new(services.AnalysisCache), new(*analysiscache.Cache)),

		repository.NewUserRepository,
		wire.Bind(new(services.UserStore), new(*repository.UserRepository)),
		services.NewUserService,
		services.NewFoodAnalysisService,
		services.NewRecipeService,
		services.NewCoachService,
		session.NewStore,

		ProvideTokenIssuer,
		ProvideAPIDependencies,
		ProvideServer,
		ProvideStateManager,
		ProvideBot,
		app.NewApp,
	)

	return nil, nil, nil
}
