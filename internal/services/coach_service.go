package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

type CoachService struct {
	ai  domain.NutritionAI
	log *slog.Logger
}

func NewCoachService(ai domain.NutritionAI) *CoachService {
	return &CoachService{ai: ai, log: logger.With("coach")}
}

// Greeting is the display-only opening message of a conversation.
func Greeting() domain.ChatMessage {
	return domain.ChatMessage{ID: "welcome", Role: domain.ChatRoleModel, Text: CoachGreeting}
}

// Reply sends message with the prior transcript and returns the user message
// and the model reply, ready to be appended to the transcript. The greeting
// is not part of the transcript.
func (s *CoachService) Reply(ctx context.Context, transcript []domain.ChatMessage, message string) ([]domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.NewValidationError("Escreva uma mensagem.")
	}

	text, err := s.ai.Chat(ctx, transcript, message)
	if err != nil {
		if errors.TypeOf(err) != errors.ErrorTypeExternal {
			err = errors.NewRemoteError(err, opChat, errors.MsgChatFailed)
		}
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		text = CoachFallbackReply
	}

	return []domain.ChatMessage{
		{ID: uuid.NewString(), Role: domain.ChatRoleUser, Text: message},
		{ID: uuid.NewString(), Role: domain.ChatRoleModel, Text: text},
	}, nil
}
