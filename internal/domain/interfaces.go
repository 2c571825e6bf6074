package domain

import "context"

// NutritionAI is the remote generative capability. Implementations may be
// slow and may fail; callers never retry.
type NutritionAI interface {
	AnalyzeFood(ctx context.Context, image []byte, mimeType string, user *User) (*FoodAnalysis, error)
	GenerateRecipe(ctx context.Context, ingredients, goal string) (*Recipe, error)
	Chat(ctx context.Context, history []ChatMessage, message string) (string, error)
}

// BotService handles telegram bot operations
type BotService interface {
	Start(ctx context.Context) error
	Stop()
}
