package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/keyboards"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/menus"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
	"github.com/vladimiradmaev/fitscan-coach/internal/utils"
)

// Telegram bots may download files up to 20 MB.
const maxPhotoBytes = 20 << 20

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	client       *http.Client
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api API, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Handle analyzes the photo and replies with the analysis card
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID
	h.stateManager.SetUserState(message.From.ID, state.None)

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	image, mimeType, err := h.download(ctx, photo.FileID)
	if err != nil {
		logger.Error("Failed to download photo", "user_id", user.ID, "error", err)
		return menus.SendText(h.api, chatID, "Não consegui baixar a foto. Tente enviar novamente.")
	}

	processing, err := h.api.Send(tgbotapi.NewMessage(chatID, "🔍 Analisando seu prato..."))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	var analysis *domain.FoodAnalysis
	_, err = h.deps.Sessions.Do(user.ID, func(s session.AppState) ([]session.Action, error) {
		result, err := h.deps.FoodAnalysisSvc.Analyze(ctx, user.ID, image, mimeType, s.User)
		if err != nil {
			return nil, err
		}
		analysis = result.Analysis
		logger.Info("Food analysis completed", "user_id", user.ID, "cached", result.Cached)
		return []session.Action{
			session.Navigated{View: domain.ViewScanner},
			session.AnalysisReady{Analysis: result.Analysis},
		}, nil
	})

	if _, delErr := h.api.Request(tgbotapi.NewDeleteMessage(chatID, processing.MessageID)); delErr != nil {
		logger.Debug("Failed to delete processing message", "error", delErr)
	}
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	photoMsg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photo.FileID))
	photoMsg.Caption = menus.AnalysisCard(analysis)
	photoMsg.ParseMode = tgbotapi.ModeMarkdown
	photoMsg.ReplyMarkup = keyboards.MealTypes(utils.DefaultMealType(h.deps.now()))

	if _, err = h.api.Send(photoMsg); err != nil {
		// If Markdown parsing fails, try sending without Markdown
		photoMsg.ParseMode = ""
		if _, err = h.api.Send(photoMsg); err != nil {
			return fmt.Errorf("failed to send analysis card: %w", err)
		}
	}
	return nil
}

// download fetches a Telegram file and sniffs its content type.
func (h *PhotoHandler) download(ctx context.Context, fileID string) ([]byte, string, error) {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, "", fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, http.DetectContentType(data), nil
}
