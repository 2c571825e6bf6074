package services

import (
	"fmt"
	"math"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

const (
	analysisTemperature = 0.4
	chatTemperature     = 0.7

	// CoachPersona is the fixed system instruction of the chat coach.
	CoachPersona = "Você é o FitScan Coach, um assistente pessoal de emagrecimento motivador, inteligente e empático. Seus conselhos são baseados em ciência nutricional, mas explicados de forma simples. Você fala Português do Brasil. Seja breve e encorajador."

	// CoachGreeting is shown to the user when a conversation starts. It is
	// never sent to the model.
	CoachGreeting = "Olá! Sou seu FitScan Coach. Como posso ajudar na sua dieta ou treino hoje?"

	// CoachFallbackReply replaces an empty model reply.
	CoachFallbackReply = "Desculpe, não consegui entender."
)

// BuildAnalysisPrompt returns the instruction sent along with the image.
// Guests get no dietary context.
func BuildAnalysisPrompt(user *domain.User) string {
	var b strings.Builder
	b.WriteString("Analise este alimento.")

	if user != nil {
		allergies := joinOrNone(user.Allergies)
		preferences := joinOrNone(user.Preferences)
		fmt.Fprintf(&b, "\nCONTEXTO DO USUÁRIO:\nAlergias: %s.\nPreferências/Dieta: %s.\n", allergies, preferences)
		b.WriteString("\nSe o alimento contiver algum ingrediente listado nas alergias, o campo 'allergyWarning' DEVE ser preenchido com um aviso claro em MAIÚSCULAS.")
		b.WriteString("\nSe o alimento violar a dieta (ex: carne para vegano), a nota healthScore deve cair drasticamente.")
	}

	b.WriteString("\nRetorne um JSON com a estrutura solicitada. Responda em Português.")
	return b.String()
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "Nenhuma"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, ", ")
}

func BuildRecipePrompt(ingredients, goal string) string {
	return fmt.Sprintf("Crie uma receita saudável usando estes ingredientes: %s. Objetivo: %s. Responda em Português.", ingredients, goal)
}

// analysisFieldsHint spells out the response structure for providers that
// cannot be given a response schema.
const analysisFieldsHint = `Campos obrigatórios do JSON: "name" (string), "status" ("Saudável", "Moderado" ou "Evitar"), "healthScore" (número de 0 a 100), "calories" (número, kcal por porção), "protein", "carbs", "fat", "sugar" (strings como "10g"), "description" (string), "alternatives", "harmfulIngredients", "beneficialIngredients" (listas de strings). Campo opcional: "allergyWarning" (string vazia se seguro).`

const recipeFieldsHint = `Campos obrigatórios do JSON: "title" (string), "calories" (número), "time" (string), "ingredients" (lista de strings), "instructions" (lista de strings).`

// rawAnalysis uses pointers so that absent fields can be told apart from
// zero values.
type rawAnalysis struct {
	Name                  *string   `json:"name"`
	Status                *string   `json:"status"`
	HealthScore           *float64  `json:"healthScore"`
	Calories              *float64  `json:"calories"`
	Protein               *string   `json:"protein"`
	Carbs                 *string   `json:"carbs"`
	Fat                   *string   `json:"fat"`
	Sugar                 *string   `json:"sugar"`
	Description           *string   `json:"description"`
	Alternatives          *[]string `json:"alternatives"`
	HarmfulIngredients    *[]string `json:"harmfulIngredients"`
	BeneficialIngredients *[]string `json:"beneficialIngredients"`
	AllergyWarning        string    `json:"allergyWarning"`
}

// ParseFoodAnalysis decodes and validates a model response. The text may
// wrap the JSON object in prose or code fences.
func ParseFoodAnalysis(text string) (*domain.FoodAnalysis, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("name", raw.Name != nil)
	check("status", raw.Status != nil)
	check("healthScore", raw.HealthScore != nil)
	check("calories", raw.Calories != nil)
	check("protein", raw.Protein != nil)
	check("carbs", raw.Carbs != nil)
	check("fat", raw.Fat != nil)
	check("sugar", raw.Sugar != nil)
	check("description", raw.Description != nil)
	check("alternatives", raw.Alternatives != nil)
	check("harmfulIngredients", raw.HarmfulIngredients != nil)
	check("beneficialIngredients", raw.BeneficialIngredients != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("response is missing fields: %s", strings.Join(missing, ", "))
	}

	status := domain.HealthStatus(*raw.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("unknown health status %q", *raw.Status)
	}
	score := math.Floor(*raw.HealthScore + 0.5)
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("health score %v out of range", *raw.HealthScore)
	}

	return &domain.FoodAnalysis{
		Name:                  *raw.Name,
		Status:                status,
		HealthScore:           int(score),
		Calories:              *raw.Calories,
		Protein:               *raw.Protein,
		Carbs:                 *raw.Carbs,
		Fat:                   *raw.Fat,
		Sugar:                 *raw.Sugar,
		Description:           *raw.Description,
		Alternatives:          *raw.Alternatives,
		HarmfulIngredients:    *raw.HarmfulIngredients,
		BeneficialIngredients: *raw.BeneficialIngredients,
		AllergyWarning:        strings.TrimSpace(raw.AllergyWarning),
	}, nil
}

type rawRecipe struct {
	Title        *string   `json:"title"`
	Calories     *float64  `json:"calories"`
	Time         *string   `json:"time"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
}

// ParseRecipe decodes and validates a recipe response. The ID is left empty.
func ParseRecipe(text string) (*domain.Recipe, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var raw rawRecipe
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if raw.Title == nil || raw.Calories == nil || raw.Time == nil || raw.Ingredients == nil || raw.Instructions == nil {
		return nil, fmt.Errorf("recipe response is missing required fields")
	}

	return &domain.Recipe{
		Title:        *raw.Title,
		Calories:     *raw.Calories,
		Time:         *raw.Time,
		Ingredients:  *raw.Ingredients,
		Instructions: *raw.Instructions,
	}, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
