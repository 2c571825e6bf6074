package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

// OpenAIService implements domain.NutritionAI on the OpenAI chat API.
type OpenAIService struct {
	client   *openai.Client
	model    string
	observer RemoteObserver
	log      *slog.Logger
}

func NewOpenAIService(apiKey, model string, observer RemoteObserver) *OpenAIService {
	return NewOpenAIServiceWithConfig(openai.DefaultConfig(apiKey), model, observer)
}

// NewOpenAIServiceWithConfig allows pointing the client at another base URL.
func NewOpenAIServiceWithConfig(cfg openai.ClientConfig, model string, observer RemoteObserver) *OpenAIService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &OpenAIService{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		observer: observer,
		log:      logger.With("openai"),
	}
}

func (s *OpenAIService) complete(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, error) {
	req.Model = s.model
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	s.observer.ObserveRemoteCall(operation, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func jsonFormat() *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
}

func (s *OpenAIService) AnalyzeFood(ctx context.Context, image []byte, mimeType string, user *domain.User) (*domain.FoodAnalysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	content, err := s.complete(ctx, opAnalyze, openai.ChatCompletionRequest{
		Temperature:    analysisTemperature,
		ResponseFormat: jsonFormat(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisFieldsHint},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
					{Type: openai.ChatMessagePartTypeText, Text: BuildAnalysisPrompt(user)},
				},
			},
		},
	})
	if err != nil {
		return nil, errors.NewRemoteError(err, opAnalyze, errors.MsgAnalysisFailed)
	}

	analysis, err := ParseFoodAnalysis(content)
	if err != nil {
		return nil, errors.NewRemoteError(err, opAnalyze, errors.MsgAnalysisFailed)
	}
	s.log.Debug("Food analysed", "name", analysis.Name)
	return analysis, nil
}

func (s *OpenAIService) GenerateRecipe(ctx context.Context, ingredients, goal string) (*domain.Recipe, error) {
	content, err := s.complete(ctx, opRecipe, openai.ChatCompletionRequest{
		ResponseFormat: jsonFormat(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recipeFieldsHint},
			{Role: openai.ChatMessageRoleUser, Content: BuildRecipePrompt(ingredients, goal)},
		},
	})
	if err != nil {
		return nil, errors.NewRemoteError(err, opRecipe, errors.MsgRecipeFailed)
	}

	recipe, err := ParseRecipe(content)
	if err != nil {
		return nil, errors.NewRemoteError(err, opRecipe, errors.MsgRecipeFailed)
	}
	return recipe, nil
}

func (s *OpenAIService) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: CoachPersona})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == domain.ChatRoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	content, err := s.complete(ctx, opChat, openai.ChatCompletionRequest{
		Temperature: chatTemperature,
		Messages:    messages,
	})
	if err != nil {
		return "", errors.NewRemoteError(err, opChat, errors.MsgChatFailed)
	}
	return content, nil
}
