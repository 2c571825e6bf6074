package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

const (
	opAnalyze = "analyze_food"
	opRecipe  = "generate_recipe"
	opChat    = "chat"
)

// RemoteObserver is notified after every model call.
type RemoteObserver interface {
	ObserveRemoteCall(operation string, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveRemoteCall(string, time.Duration, error) {}

// GeminiService implements domain.NutritionAI on the Gemini API.
type GeminiService struct {
	client   *genai.Client
	model    string
	observer RemoteObserver
	log      *slog.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, observer RemoteObserver) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &GeminiService{
		client:   client,
		model:    model,
		observer: observer,
		log:      logger.With("gemini"),
	}, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func foodAnalysisSchema() *genai.Schema {
	str := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
	list := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: desc}
	}
	statuses := make([]string, len(domain.HealthStatuses))
	for i, s := range domain.HealthStatuses {
		statuses[i] = string(s)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                  str("Nome do alimento identificado."),
			"status":                {Type: genai.TypeString, Format: "enum", Enum: statuses, Description: "Classificação geral de saúde."},
			"healthScore":           {Type: genai.TypeNumber, Description: "Nota de 0 a 100 para o alimento (100 = extremamente saudável, 0 = muito prejudicial)."},
			"calories":              {Type: genai.TypeNumber, Description: "Estimativa de calorias por porção padrão (kcal)."},
			"protein":               str("Quantidade de proteína (ex: '10g')."),
			"carbs":                 str("Quantidade de carboidratos (ex: '20g')."),
			"fat":                   str("Quantidade de gordura (ex: '5g')."),
			"sugar":                 str("Quantidade de açúcar (ex: '2g')."),
			"description":           str("Breve explicação sobre a nota e o status."),
			"alternatives":          list("Lista de 2 a 3 alternativas mais saudáveis."),
			"harmfulIngredients":    list("Lista de ingredientes negativos (ex: excesso de sódio, gordura trans, açúcar adicionado)."),
			"beneficialIngredients": list("Lista de ingredientes positivos (ex: fibras, vitaminas, proteína magra)."),
			"allergyWarning":        str("AVISO CRÍTICO se o alimento contém algo que o usuário tem alergia. Retorne string vazia se seguro."),
		},
		Required: []string{"name", "status", "healthScore", "calories", "protein", "carbs", "fat", "sugar", "description", "alternatives", "harmfulIngredients", "beneficialIngredients"},
	}
}

func recipeSchema() *genai.Schema {
	list := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        {Type: genai.TypeString},
			"calories":     {Type: genai.TypeNumber},
			"time":         {Type: genai.TypeString},
			"ingredients":  list,
			"instructions": list,
		},
		Required: []string{"title", "calories", "time", "ingredients", "instructions"},
	}
}

func (s *GeminiService) AnalyzeFood(ctx context.Context, image []byte, mimeType string, user *domain.User) (*domain.FoodAnalysis, error) {
	model := s.client.GenerativeModel(s.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = foodAnalysisSchema()
	model.SetTemperature(analysisTemperature)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(BuildAnalysisPrompt(user)))
	s.observer.ObserveRemoteCall(opAnalyze, time.Since(start), err)
	if err != nil {
		return nil, errors.NewRemoteError(fmt.Errorf("failed to generate content: %w", err), opAnalyze, errors.MsgAnalysisFailed)
	}

	analysis, err := ParseFoodAnalysis(responseText(resp))
	if err != nil {
		return nil, errors.NewRemoteError(err, opAnalyze, errors.MsgAnalysisFailed)
	}
	s.log.Debug("Food analysed", "name", analysis.Name, "duration", time.Since(start))
	return analysis, nil
}

func (s *GeminiService) GenerateRecipe(ctx context.Context, ingredients, goal string) (*domain.Recipe, error) {
	model := s.client.GenerativeModel(s.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = recipeSchema()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(BuildRecipePrompt(ingredients, goal)))
	s.observer.ObserveRemoteCall(opRecipe, time.Since(start), err)
	if err != nil {
		return nil, errors.NewRemoteError(fmt.Errorf("failed to generate content: %w", err), opRecipe, errors.MsgRecipeFailed)
	}

	recipe, err := ParseRecipe(responseText(resp))
	if err != nil {
		return nil, errors.NewRemoteError(err, opRecipe, errors.MsgRecipeFailed)
	}
	return recipe, nil
}

func (s *GeminiService) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	model := s.client.GenerativeModel(s.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(CoachPersona))
	model.SetTemperature(chatTemperature)

	cs := model.StartChat()
	cs.History = toGeminiHistory(history)

	start := time.Now()
	resp, err := cs.SendMessage(ctx, genai.Text(message))
	s.observer.ObserveRemoteCall(opChat, time.Since(start), err)
	if err != nil {
		return "", errors.NewRemoteError(fmt.Errorf("failed to send message: %w", err), opChat, errors.MsgChatFailed)
	}
	return responseText(resp), nil
}

// toGeminiHistory converts a transcript. Gemini requires the history to open
// with a user turn, so leading model turns are dropped.
func toGeminiHistory(history []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if len(contents) == 0 && msg.Role != domain.ChatRoleUser {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  string(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
