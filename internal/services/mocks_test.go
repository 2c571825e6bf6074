package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

type mockAI struct {
	mock.Mock
}

func (m *mockAI) AnalyzeFood(ctx context.Context, image []byte, mimeType string, user *domain.User) (*domain.FoodAnalysis, error) {
	args := m.Called(ctx, image, mimeType, user)
	if a := args.Get(0); a != nil {
		return a.(*domain.FoodAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAI) GenerateRecipe(ctx context.Context, ingredients, goal string) (*domain.Recipe, error) {
	args := m.Called(ctx, ingredients, goal)
	if r := args.Get(0); r != nil {
		return r.(*domain.Recipe), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAI) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	args := m.Called(ctx, history, message)
	return args.String(0), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Lookup(ctx context.Context, scope, key string) (*domain.FoodAnalysis, bool) {
	args := m.Called(ctx, scope, key)
	if a := args.Get(0); a != nil {
		return a.(*domain.FoodAnalysis), args.Bool(1)
	}
	return nil, args.Bool(1)
}

func (m *mockCache) Store(ctx context.Context, scope, key string, analysis *domain.FoodAnalysis) error {
	return m.Called(ctx, scope, key, analysis).Error(0)
}
