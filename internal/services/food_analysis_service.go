package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/fitscan-coach/internal/analysiscache"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

// AnalysisCache is the subset of *analysiscache.Cache the flow needs.
type AnalysisCache interface {
	Lookup(ctx context.Context, scope, key string) (*domain.FoodAnalysis, bool)
	Store(ctx context.Context, scope, key string, analysis *domain.FoodAnalysis) error
}

type AnalysisResult struct {
	Analysis *domain.FoodAnalysis `json:"analysis"`
	Cached   bool                 `json:"cached"`
}

type FoodAnalysisService struct {
	ai    domain.NutritionAI
	cache AnalysisCache
	log   *slog.Logger
}

func NewFoodAnalysisService(ai domain.NutritionAI, cache AnalysisCache) *FoodAnalysisService {
	return &FoodAnalysisService{
		ai:    ai,
		cache: cache,
		log:   logger.With("food_analysis"),
	}
}

// Analyze returns the analysis of image for user, from the cache when an
// entry for the same image and dietary context is still fresh. scope selects
// the cache document (user id or guest session id). Failed analyses are never
// cached.
func (s *FoodAnalysisService) Analyze(ctx context.Context, scope string, image []byte, mimeType string, user *domain.User) (*AnalysisResult, error) {
	if len(image) == 0 {
		return nil, errors.NewValidationError("Envie uma imagem do alimento.")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	key := analysiscache.Key(image, user)
	if cached, ok := s.cache.Lookup(ctx, scope, key); ok {
		s.log.Info("Analysis served from cache", "scope", scope, "cache_key", key, "cached", true)
		return &AnalysisResult{Analysis: cached, Cached: true}, nil
	}

	start := time.Now()
	analysis, err := s.ai.AnalyzeFood(ctx, image, mimeType, user)
	if err != nil {
		if errors.TypeOf(err) != errors.ErrorTypeExternal {
			err = errors.NewRemoteError(err, opAnalyze, errors.MsgAnalysisFailed)
		}
		return nil, err
	}

	if err := s.cache.Store(ctx, scope, key, analysis); err != nil {
		s.log.Warn("Failed to store analysis in cache", "scope", scope, "cache_key", key, "error", err)
	}

	s.log.Info("Food analysed", "scope", scope, "cache_key", key, "cached", false,
		"name", analysis.Name, "duration", time.Since(start))
	return &AnalysisResult{Analysis: analysis, Cached: false}, nil
}
