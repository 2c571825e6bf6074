package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
)

func TestRecipe_DefaultGoalAndID(t *testing.T) {
	ctx := context.Background()
	ai := &mockAI{}
	ai.On("GenerateRecipe", ctx, "frango, brócolis", domain.GoalLoseWeight).
		Return(&domain.Recipe{Title: "Frango grelhado", Calories: 350}, nil)

	recipe, err := NewRecipeService(ai).Generate(ctx, "  frango, brócolis ", "")
	require.NoError(t, err)
	assert.Equal(t, "Frango grelhado", recipe.Title)
	assert.NotEmpty(t, recipe.ID)
	ai.AssertExpectations(t)
}

func TestRecipe_EmptyIngredients(t *testing.T) {
	ai := &mockAI{}
	_, err := NewRecipeService(ai).Generate(context.Background(), "   ", domain.GoalMaintain)
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
	ai.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipe_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	ai := &mockAI{}
	ai.On("GenerateRecipe", ctx, "ovos", domain.GoalGainMass).Return(nil, stderrors.New("503"))

	_, err := NewRecipeService(ai).Generate(ctx, "ovos", domain.GoalGainMass)
	require.Error(t, err)
	assert.Equal(t, errors.MsgRecipeFailed, errors.UserMessage(err))
}

func TestCoach_ReplyAppendsBothTurns(t *testing.T) {
	ctx := context.Background()
	transcript := []domain.ChatMessage{
		{ID: "1", Role: domain.ChatRoleUser, Text: "Oi"},
		{ID: "2", Role: domain.ChatRoleModel, Text: "Olá!"},
	}
	ai := &mockAI{}
	ai.On("Chat", ctx, transcript, "Quantas calorias tem um ovo?").Return("Cerca de 70 kcal.", nil)

	msgs, err := NewCoachService(ai).Reply(ctx, transcript, " Quantas calorias tem um ovo? ")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, "Quantas calorias tem um ovo?", msgs[0].Text)
	assert.Equal(t, domain.ChatRoleModel, msgs[1].Role)
	assert.Equal(t, "Cerca de 70 kcal.", msgs[1].Text)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestCoach_EmptyReplyFallback(t *testing.T) {
	ctx := context.Background()
	ai := &mockAI{}
	ai.On("Chat", ctx, mock.Anything, "oi").Return("  ", nil)

	msgs, err := NewCoachService(ai).Reply(ctx, nil, "oi")
	require.NoError(t, err)
	assert.Equal(t, CoachFallbackReply, msgs[1].Text)
}

func TestCoach_Validation(t *testing.T) {
	_, err := NewCoachService(&mockAI{}).Reply(context.Background(), nil, "")
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
}

func TestCoach_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	ai := &mockAI{}
	ai.On("Chat", ctx, mock.Anything, "oi").Return("", stderrors.New("timeout"))

	_, err := NewCoachService(ai).Reply(ctx, nil, "oi")
	assert.Equal(t, errors.MsgChatFailed, errors.UserMessage(err))
}

func TestGreeting(t *testing.T) {
	g := Greeting()
	assert.Equal(t, domain.ChatRoleModel, g.Role)
	assert.Equal(t, CoachGreeting, g.Text)
}

func TestToGeminiHistory_DropsLeadingModelTurns(t *testing.T) {
	history := toGeminiHistory([]domain.ChatMessage{
		Greeting(),
		{Role: domain.ChatRoleUser, Text: "a"},
		{Role: domain.ChatRoleModel, Text: "b"},
	})
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
}
