package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/menus"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

// TextHandler handles text messages
type TextHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api API, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	switch h.stateManager.GetUserState(message.From.ID) {
	case state.ChatMode:
		return h.handleChat(ctx, message, user)
	case state.WaitingForIngredients:
		return askGoal(h.api, h.stateManager, message.Chat.ID, message.From.ID, message.Text)
	default:
		return h.handleDefaultText(message.Chat.ID)
	}
}

// handleChat sends the message to the coach with the session transcript.
func (h *TextHandler) handleChat(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID
	if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		logger.Debug("Failed to send typing action", "error", err)
	}

	var reply string
	_, err := h.deps.Sessions.Do(user.ID, func(s session.AppState) ([]session.Action, error) {
		msgs, err := h.deps.CoachSvc.Reply(ctx, s.Transcript, message.Text)
		if err != nil {
			return nil, err
		}
		reply = msgs[len(msgs)-1].Text
		return []session.Action{session.ChatAppended{Messages: msgs}}, nil
	})
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	_, err = h.api.Send(tgbotapi.NewMessage(chatID, reply))
	return err
}

func (h *TextHandler) handleDefaultText(chatID int64) error {
	return menus.SendText(h.api, chatID, "Envie uma foto do seu prato para analisar, ou use /help para ver os comandos.")
}
