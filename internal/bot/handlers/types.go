package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/menus"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/interfaces"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	menus.Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService     interfaces.UserServiceInterface
	FoodAnalysisSvc interfaces.FoodAnalysisServiceInterface
	RecipeSvc       interfaces.RecipeServiceInterface
	CoachSvc        interfaces.CoachServiceInterface
	Sessions        *session.Store
	Now             func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// UserID is the profile and session id of a Telegram user.
func UserID(telegramID int64) string {
	return fmt.Sprintf("tg-%d", telegramID)
}

// replyError tells the user what went wrong and logs the cause.
func replyError(ctx context.Context, api API, chatID int64, err error) error {
	errors.NewHandler(logger.GetLogger()).Handle(ctx, err)
	return menus.SendText(api, chatID, "❌ "+errors.UserMessage(err))
}

func sendDashboard(api API, sessions *session.Store, chatID int64, sessionID string) error {
	snap := sessions.Snapshot(sessionID)
	var stats *domain.UserStats
	if snap.User != nil {
		stats = snap.User.Stats
	}
	summary := nutrition.Summarize(snap.FoodLog, snap.Activity, stats)
	return menus.SendText(api, chatID, menus.DashboardText(summary))
}
