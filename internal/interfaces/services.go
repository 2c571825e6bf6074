package interfaces

import (
	"context"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	Login(ctx context.Context, userID, name, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	CompleteOnboarding(ctx context.Context, userID string, stats *domain.UserStats, prefs []domain.DietaryPreference, allergies []domain.Allergen) (*domain.User, error)
	UpdateStats(ctx context.Context, userID string, stats *domain.UserStats) (*domain.User, error)
	SetPreferences(ctx context.Context, userID string, prefs []domain.DietaryPreference) (*domain.User, error)
	SetAllergies(ctx context.Context, userID string, allergies []domain.Allergen) (*domain.User, error)
	Rename(ctx context.Context, userID, name string) (*domain.User, error)
	Logout(ctx context.Context, userID string) error
}

// FoodAnalysisServiceInterface defines the contract for food analysis operations
type FoodAnalysisServiceInterface interface {
	Analyze(ctx context.Context, scope string, image []byte, mimeType string, user *domain.User) (*services.AnalysisResult, error)
}

type RecipeServiceInterface interface {
	Generate(ctx context.Context, ingredients, goal string) (*domain.Recipe, error)
}

type CoachServiceInterface interface {
	Reply(ctx context.Context, transcript []domain.ChatMessage, message string) ([]domain.ChatMessage, error)
}

var (
	_ UserServiceInterface         = (*services.UserService)(nil)
	_ FoodAnalysisServiceInterface = (*services.FoodAnalysisService)(nil)
	_ RecipeServiceInterface       = (*services.RecipeService)(nil)
	_ CoachServiceInterface        = (*services.CoachService)(nil)
)
