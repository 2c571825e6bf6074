package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

type RecipeService struct {
	ai  domain.NutritionAI
	log *slog.Logger
}

func NewRecipeService(ai domain.NutritionAI) *RecipeService {
	return &RecipeService{ai: ai, log: logger.With("recipes")}
}

// Generate asks the model for a recipe. Nothing is cached or retried.
func (s *RecipeService) Generate(ctx context.Context, ingredients, goal string) (*domain.Recipe, error) {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, errors.NewValidationError("Informe os ingredientes disponíveis.")
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = domain.GoalLoseWeight
	}

	recipe, err := s.ai.GenerateRecipe(ctx, ingredients, goal)
	if err != nil {
		if errors.TypeOf(err) != errors.ErrorTypeExternal {
			err = errors.NewRemoteError(err, opRecipe, errors.MsgRecipeFailed)
		}
		return nil, err
	}

	recipe.ID = uuid.NewString()
	s.log.Info("Recipe generated", "title", recipe.Title, "goal", goal)
	return recipe, nil
}
