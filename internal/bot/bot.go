package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/handlers"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

var _ domain.BotService = (*Bot)(nil)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
	log     *slog.Logger
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log := logger.With("bot")
	log.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
		log:     log,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Bot is shutting down")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				b.log.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// Stop ends long polling.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
