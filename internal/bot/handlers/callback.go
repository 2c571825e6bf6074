package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/keyboards"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/menus"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api API, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first to stop the client spinner
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	telegramID := query.From.ID

	if meal, ok := keyboards.MealFromCallback(query.Data); ok {
		return h.handleLogFood(ctx, chatID, user, meal)
	}
	if goal, ok := keyboards.GoalFromCallback(query.Data); ok {
		return h.handleRecipeGoal(ctx, chatID, telegramID, user, goal)
	}

	switch query.Data {
	case keyboards.CbScan:
		h.stateManager.SetUserState(telegramID, state.None)
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewScanner})
		return menus.SendText(h.api, chatID, "📷 Envie uma foto do prato para analisar.")
	case keyboards.CbDashboard:
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewDashboard})
		return sendDashboard(h.api, h.deps.Sessions, chatID, user.ID)
	case keyboards.CbRecipes:
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewRecipes})
		return startRecipe(h.api, h.stateManager, chatID, telegramID, "")
	case keyboards.CbCoach:
		return enterChat(h.api, h.deps, h.stateManager, chatID, telegramID, user.ID)
	case keyboards.CbProfile:
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewProfile})
		return menus.SendText(h.api, chatID, menus.ProfileText(user))
	case keyboards.CbMainMenu:
		h.stateManager.SetUserState(telegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, user)
	}

	logger.Warn("Unknown callback data", "data", query.Data, "user_id", user.ID)
	return nil
}

// handleLogFood commits the pending analysis under meal.
func (h *CallbackHandler) handleLogFood(ctx context.Context, chatID int64, user *domain.User, meal domain.MealType) error {
	_, err := h.deps.Sessions.Do(user.ID, func(s session.AppState) ([]session.Action, error) {
		if s.PendingAnalysis == nil {
			return nil, errors.ErrNoPendingAnalysis
		}
		return []session.Action{session.FoodLogged{
			ID:       uuid.NewString(),
			At:       h.deps.now().UnixMilli(),
			MealType: meal,
		}}, nil
	})
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Registrado em %s.", meal))); err != nil {
		return err
	}
	return sendDashboard(h.api, h.deps.Sessions, chatID, user.ID)
}

func (h *CallbackHandler) handleRecipeGoal(ctx context.Context, chatID, telegramID int64, user *domain.User, goal string) error {
	ingredients, ok := h.stateManager.GetTempData(telegramID, state.KeyIngredients)
	if !ok {
		return menus.SendText(h.api, chatID, "Envie os ingredientes com /receita <ingredientes>.")
	}

	if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		logger.Debug("Failed to send typing action", "error", err)
	}

	recipe, err := h.deps.RecipeSvc.Generate(ctx, ingredients, goal)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	h.stateManager.ClearTempData(telegramID)
	h.deps.Sessions.Dispatch(user.ID, session.RecipeGenerated{Recipe: recipe})

	return menus.SendText(h.api, chatID, menus.RecipeText(recipe))
}
