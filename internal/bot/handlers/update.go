package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             API
	deps            Dependencies
	stateManager    state.StateManager
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api API, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		stateManager:    stateManager,
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
		photoHandler:    NewPhotoHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	}
	if from == nil {
		return nil
	}

	user, err := h.login(ctx, from)
	if err != nil {
		logger.Error("Error getting/creating user", "telegram_id", from.ID, "error", err)
		return fmt.Errorf("failed to get/create user: %w", err)
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	}

	msg := update.Message
	switch {
	case msg.IsCommand():
		return h.commandHandler.Handle(ctx, msg, user)
	case len(msg.Photo) > 0:
		return h.photoHandler.Handle(ctx, msg, user)
	case msg.Text != "":
		return h.textHandler.Handle(ctx, msg, user)
	}
	return nil
}

// login loads or creates the profile and makes sure the session carries it.
func (h *UpdateHandler) login(ctx context.Context, from *tgbotapi.User) (*domain.User, error) {
	id := UserID(from.ID)
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}

	user, err := h.deps.UserService.Login(ctx, id, name, "")
	if err != nil {
		return nil, err
	}

	if h.deps.Sessions.Snapshot(id).User == nil {
		h.deps.Sessions.Dispatch(id, session.LoggedIn{User: user})
	} else {
		h.deps.Sessions.Dispatch(id, session.ProfileUpdated{User: user})
	}
	return user, nil
}
