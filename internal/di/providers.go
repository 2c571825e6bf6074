package di

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/fitscan-coach/internal/analysiscache"
	"github.com/vladimiradmaev/fitscan-coach/internal/api"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/handlers"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/config"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/metrics"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
	"github.com/vladimiradmaev/fitscan-coach/internal/storage"
)

// ProvideStore opens the configured KV store and closes it on cleanup.
func ProvideStore(ctx context.Context, cfg *config.Config) (storage.KV, func(), error) {
	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	logger.Info("Storage ready", "driver", cfg.Storage.Driver)
	return kv, func() {
		if err := kv.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}, nil
}

// ProvideNutritionAI builds the model client selected by cfg.AI.Provider.
func ProvideNutritionAI(ctx context.Context, cfg *config.Config, m metrics.Provider) (domain.NutritionAI, func(), error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		logger.Info("Using OpenAI", "model", cfg.AI.Model)
		return services.NewOpenAIService(cfg.AI.OpenAIAPIKey, cfg.AI.Model, m), func() {}, nil
	default:
		gemini, err := services.NewGeminiService(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model, m)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Gemini", "model", cfg.AI.Model)
		return gemini, func() {
			if err := gemini.Close(); err != nil {
				logger.Warn("Failed to close Gemini client", "error", err)
			}
		}, nil
	}
}

func ProvideAnalysisCache(kv storage.KV, cfg *config.Config, m metrics.Provider) *analysiscache.Cache {
	return analysiscache.New(kv,
		analysiscache.WithTTL(cfg.Cache.TTL),
		analysiscache.WithPurge(cfg.Cache.PurgeExpired),
		analysiscache.WithRecorder(m),
	)
}

func ProvideTokenIssuer(cfg *config.Config) *api.TokenIssuer {
	return api.NewTokenIssuer(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL)
}

func ProvideAPIDependencies(
	users *services.UserService,
	analyses *services.FoodAnalysisService,
	recipes *services.RecipeService,
	coach *services.CoachService,
	sessions *session.Store,
	tokens *api.TokenIssuer,
	m metrics.Provider,
) api.Dependencies {
	return api.Dependencies{
		UserService:     users,
		FoodAnalysisSvc: analyses,
		RecipeSvc:       recipes,
		CoachSvc:        coach,
		Sessions:        sessions,
		Tokens:          tokens,
		Metrics:         m,
	}
}

func ProvideServer(cfg *config.Config, deps api.Dependencies) *api.Server {
	return api.NewServer(cfg.HTTP, deps)
}

// ProvideStateManager keeps bot conversation state in Redis when the store
// is Redis, and in memory otherwise.
func ProvideStateManager(kv storage.KV) state.StateManager {
	if rs, ok := kv.(*storage.RedisStore); ok {
		return state.NewRedisManager(rs.Client())
	}
	return state.NewManager()
}

// ProvideBot returns nil when no Telegram token is configured.
func ProvideBot(cfg *config.Config, deps api.Dependencies, sm state.StateManager) (*bot.Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, nil
	}
	return bot.NewBot(cfg.Telegram.Token, handlers.Dependencies{
		UserService:     deps.UserService,
		FoodAnalysisSvc: deps.FoodAnalysisSvc,
		RecipeSvc:       deps.RecipeSvc,
		CoachSvc:        deps.CoachSvc,
		Sessions:        deps.Sessions,
	}, sm)
}
