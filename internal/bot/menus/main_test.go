package menus

import (
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
)

type captureSender struct {
	sent []tgbotapi.Chattable
}

func (c *captureSender) Send(m tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.sent = append(c.sent, m)
	return tgbotapi.Message{}, nil
}

func TestSendMainMenu_OnboardingHint(t *testing.T) {
	s := &captureSender{}
	require.NoError(t, SendMainMenu(s, 10, &domain.User{Name: "Ana"}))
	require.NoError(t, SendMainMenu(s, 10, &domain.User{Name: "Ana", Stats: &domain.UserStats{Age: 30}}))

	first := s.sent[0].(tgbotapi.MessageConfig)
	second := s.sent[1].(tgbotapi.MessageConfig)
	assert.Contains(t, first.Text, "Olá, Ana")
	assert.Contains(t, first.Text, "/perfil")
	assert.NotContains(t, second.Text, "/perfil")
	assert.Equal(t, int64(10), first.ChatID)
}

func TestAnalysisCard(t *testing.T) {
	a := &domain.FoodAnalysis{
		Name:                  "Pad_Thai",
		Status:                domain.HealthStatusAvoid,
		HealthScore:           35,
		Calories:              780,
		Protein:               "20g",
		Carbs:                 "90g",
		Fat:                   "30g",
		Sugar:                 "12g",
		Alternatives:          []string{"Macarrão de abobrinha"},
		HarmfulIngredients:    []string{"Amendoim"},
		BeneficialIngredients: []string{"Broto de feijão"},
		AllergyWarning:        "Contém amendoim",
	}
	card := AnalysisCard(a)
	assert.True(t, strings.HasPrefix(card, "⚠️ *ALERTA DE ALERGIA:* Contém amendoim"))
	assert.Contains(t, card, "Pad\\_Thai")
	assert.Contains(t, card, "🔴 Evitar · Nota 35/100")
	assert.Contains(t, card, "780 kcal")
	assert.Contains(t, card, "Macarrão de abobrinha")

	a.HealthScore = 85
	a.AllergyWarning = ""
	card = AnalysisCard(a)
	assert.NotContains(t, card, "Alternativas")
	assert.NotContains(t, card, "ALERTA")
}

func TestAnalysisCard_Truncated(t *testing.T) {
	a := &domain.FoodAnalysis{Name: "X", Description: strings.Repeat("é", 2000)}
	card := AnalysisCard(a)
	assert.Equal(t, maxCaptionLength, utf8.RuneCountInString(card))
	assert.True(t, strings.HasSuffix(card, "..."))
}

func TestDashboardText(t *testing.T) {
	source := domain.DeviceGarmin
	log := []domain.FoodLogEntry{
		{FoodAnalysis: domain.FoodAnalysis{Name: "Omelete", Calories: 300, Protein: "20g", Carbs: "2g", Fat: "22g"}, MealType: domain.MealBreakfast},
		{FoodAnalysis: domain.FoodAnalysis{Name: "Frango", Calories: 500, Protein: "45g", Carbs: "40g", Fat: "12g"}, MealType: domain.MealLunch},
	}
	activity := domain.ActivityData{Steps: 8432, ActiveCalories: 450, HeartRate: 72, Source: &source, IsConnected: true}
	stats := &domain.UserStats{Age: 30, Height: 180, CurrentWeight: 90, TargetWeight: 80, Gender: domain.GenderMale, ActivityLevel: domain.ActivitySedentary}

	text := DashboardText(nutrition.Summarize(log, activity, stats))
	assert.Contains(t, text, "Consumido: 800 kcal")
	assert.Contains(t, text, "450 ativas")
	assert.Contains(t, text, "Garmin: 8432 passos")
	assert.Contains(t, text, "• Omelete · 300 kcal")
	assert.Contains(t, text, "Faltam 10.0 kg para perder")
	assert.Less(t, strings.Index(text, "Café da Manhã"), strings.Index(text, "Almoço"))
}

func TestProfileText(t *testing.T) {
	user := &domain.User{Name: "Ana", Allergies: []domain.Allergen{domain.AllergenMilk}}
	text := ProfileText(user)
	assert.Contains(t, text, "Dieta: nenhuma")
	assert.Contains(t, text, "Alergias: Leite")
	assert.Contains(t, text, "/perfil")

	user.Stats = &domain.UserStats{Age: 30, Height: 180, CurrentWeight: 90, TargetWeight: 80, Gender: domain.GenderMale, ActivityLevel: domain.ActivitySedentary}
	text = ProfileText(user)
	assert.Contains(t, text, "Meta diária:")
	assert.NotContains(t, text, "/perfil")
}

func TestRecipeText(t *testing.T) {
	text := RecipeText(&domain.Recipe{
		Title: "Omelete de espinafre", Calories: 320, Time: "15 min",
		Ingredients:  []string{"3 ovos", "1 xícara de espinafre"},
		Instructions: []string{"Bata os ovos", "Cozinhe em fogo baixo"},
	})
	assert.Contains(t, text, "🍳 Omelete de espinafre")
	assert.Contains(t, text, "• 3 ovos")
	assert.Contains(t, text, "2. Cozinhe em fogo baixo")
}
