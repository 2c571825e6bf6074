package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitscan-coach/internal/analysiscache"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/repository"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
	"github.com/vladimiradmaev/fitscan-coach/internal/storage"
)

const telegramID = 42

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.PhotoConfig:
			out = append(out, m.Caption)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeAI struct {
	analysis     *domain.FoodAnalysis
	analyzeCalls int
	lastUser     *domain.User
	lastGoal     string
	lastHistory  []domain.ChatMessage
	reply        string
	err          error
}

func (f *fakeAI) AnalyzeFood(_ context.Context, _ []byte, _ string, user *domain.User) (*domain.FoodAnalysis, error) {
	f.analyzeCalls++
	f.lastUser = user
	if f.err != nil {
		return nil, f.err
	}
	a := *f.analysis
	return &a, nil
}

func (f *fakeAI) GenerateRecipe(_ context.Context, ingredients, goal string) (*domain.Recipe, error) {
	f.lastGoal = goal
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Recipe{
		Title:        "Frango grelhado com arroz",
		Calories:     550,
		Time:         "30 min",
		Ingredients:  strings.Split(ingredients, ", "),
		Instructions: []string{"Tempere", "Grelhe"},
	}, nil
}

func (f *fakeAI) Chat(_ context.Context, history []domain.ChatMessage, _ string) (string, error) {
	f.lastHistory = history
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type testEnv struct {
	api     *fakeAPI
	ai      *fakeAI
	deps    Dependencies
	sm      *state.Manager
	handler *UpdateHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(jpegBytes)
	}))
	t.Cleanup(files.Close)

	kv := storage.NewMemoryStore(4)
	ai := &fakeAI{
		analysis: &domain.FoodAnalysis{
			Name: "Frango com salada", Status: domain.HealthStatusHealthy, HealthScore: 88,
			Calories: 420, Protein: "35g", Carbs: "20g", Fat: "15g", Sugar: "3g",
		},
		reply: "Capriche na proteína!",
	}
	deps := Dependencies{
		UserService:     services.NewUserService(repository.NewUserRepository(kv)),
		FoodAnalysisSvc: services.NewFoodAnalysisService(ai, analysiscache.New(kv)),
		RecipeSvc:       services.NewRecipeService(ai),
		CoachSvc:        services.NewCoachService(ai),
		Sessions:        session.NewStore(),
		Now:             func() time.Time { return time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC) },
	}
	api := &fakeAPI{fileURL: files.URL}
	sm := state.NewManager()
	return &testEnv{api: api, ai: ai, deps: deps, sm: sm, handler: NewUpdateHandler(api, deps, sm)}
}

func (e *testEnv) handle(t *testing.T, u tgbotapi.Update) {
	t.Helper()
	require.NoError(t, e.handler.Handle(context.Background(), u))
}

func (e *testEnv) snapshot() session.AppState {
	return e.deps.Sessions.Snapshot(UserID(telegramID))
}

func from() *tgbotapi.User {
	return &tgbotapi.User{ID: telegramID, FirstName: "Ana", LastName: "Souza"}
}

func command(text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from(),
		Chat:     &tgbotapi.Chat{ID: telegramID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{From: from(), Chat: &tgbotapi.Chat{ID: telegramID}, Text: s}}
}

func photo() tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:  from(),
		Chat:  &tgbotapi.Chat{ID: telegramID},
		Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    from(),
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: telegramID}},
		Data:    data,
	}}
}

func TestStart_NewUserIsOnboarded(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/start"))

	assert.Contains(t, env.api.lastText(), "Olá, Ana Souza")
	assert.Contains(t, env.api.lastText(), "/perfil")

	s := env.snapshot()
	require.NotNil(t, s.User)
	assert.Equal(t, "tg-42", s.User.ID)
	assert.Equal(t, domain.ViewOnboarding, s.View)
}

func TestProfileCommand_CompletesOnboarding(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/perfil 30 180 90 80 m moderado"))

	assert.Contains(t, env.api.lastText(), "Perfil atualizado")
	s := env.snapshot()
	assert.Equal(t, domain.ViewDashboard, s.View)
	require.NotNil(t, s.User.Stats)
	assert.Equal(t, domain.ActivityModerate, s.User.Stats.ActivityLevel)

	env.handle(t, command("/perfil 30 180 88 80 m moderado"))
	assert.Equal(t, 88.0, env.snapshot().User.Stats.CurrentWeight)

	env.handle(t, command("/perfil 30 180"))
	assert.Contains(t, env.api.lastText(), "Uso: /perfil")
}

func TestParseStatsArgs(t *testing.T) {
	stats, err := ParseStatsArgs("28 165,5 70 62 f")
	require.NoError(t, err)
	assert.Equal(t, &domain.UserStats{
		Age: 28, Height: 165.5, CurrentWeight: 70, TargetWeight: 62,
		Gender: domain.GenderFemale, ActivityLevel: domain.ActivitySedentary,
	}, stats)

	for _, args := range []string{"", "a 165 70 62 f", "28 165 70 62 x", "28 165 70 62 f turbo", "28 alto 70 62 f"} {
		_, err := ParseStatsArgs(args)
		assert.Error(t, err, args)
	}
}

func TestPhotoFlow_AnalyzeThenLog(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, photo())

	require.Equal(t, 1, env.ai.analyzeCalls)
	card := env.api.lastText()
	assert.Contains(t, card, "Frango com salada")
	assert.Contains(t, card, "Nota 88/100")

	var cardMsg tgbotapi.PhotoConfig
	for _, c := range env.api.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			cardMsg = p
		}
	}
	kb, ok := cardMsg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "✅ Almoço", kb.InlineKeyboard[0][1].Text, "lunch suggested at 12:30")
	require.NotNil(t, env.snapshot().PendingAnalysis)

	env.handle(t, callback("log:lunch"))
	s := env.snapshot()
	require.Len(t, s.FoodLog, 1)
	assert.Equal(t, domain.MealLunch, s.FoodLog[0].MealType)
	assert.Equal(t, "Frango com salada", s.FoodLog[0].Name)
	assert.Nil(t, s.PendingAnalysis)
	assert.Equal(t, domain.ViewDashboard, s.View)
	assert.Contains(t, env.api.lastText(), "Consumido: 420 kcal")

	env.handle(t, photo())
	assert.Equal(t, 1, env.ai.analyzeCalls, "same photo and context is served from cache")
}

func TestPhotoFlow_RemoteFailure(t *testing.T) {
	env := newTestEnv(t)
	env.ai.err = errors.New("quota exceeded")
	env.handle(t, photo())

	assert.Contains(t, env.api.lastText(), "Não foi possível analisar o alimento")
	assert.Nil(t, env.snapshot().PendingAnalysis)
}

func TestLogWithoutPendingAnalysis(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, callback("log:dinner"))

	assert.Contains(t, env.api.lastText(), "Nenhuma análise para registrar")
	assert.Empty(t, env.snapshot().FoodLog)
}

func TestRecipeFlow(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/receita frango, arroz"))

	sent := env.api.sent[len(env.api.sent)-1].(tgbotapi.MessageConfig)
	_, ok := sent.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok, "goal buttons are offered")

	env.handle(t, callback("goal:gain"))
	assert.Equal(t, domain.GoalGainMass, env.ai.lastGoal)
	assert.Contains(t, env.api.lastText(), "Frango grelhado com arroz")
	require.NotNil(t, env.snapshot().LastRecipe)

	_, ok = env.sm.GetTempData(telegramID, state.KeyIngredients)
	assert.False(t, ok)
}

func TestRecipeFlow_AsksForIngredients(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, callback("recipes"))
	assert.Equal(t, state.WaitingForIngredients, env.sm.GetUserState(telegramID))

	env.handle(t, text("ovos, espinafre"))
	v, ok := env.sm.GetTempData(telegramID, state.KeyIngredients)
	require.True(t, ok)
	assert.Equal(t, "ovos, espinafre", v)
	assert.Equal(t, state.None, env.sm.GetUserState(telegramID))
}

func TestCoachFlow(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/coach"))
	assert.Equal(t, state.ChatMode, env.sm.GetUserState(telegramID))
	assert.Contains(t, env.api.lastText(), services.CoachGreeting)

	env.handle(t, text("Quanto de proteína por dia?"))
	assert.Equal(t, "Capriche na proteína!", env.api.lastText())
	assert.Empty(t, env.ai.lastHistory, "greeting is not sent as history")

	env.handle(t, text("E de carboidrato?"))
	assert.Len(t, env.ai.lastHistory, 2)
	assert.Len(t, env.snapshot().Transcript, 4)

	env.handle(t, command("/menu"))
	assert.Equal(t, state.None, env.sm.GetUserState(telegramID))
}

func TestConnectToggles(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/conectar garmin"))
	assert.Contains(t, env.api.lastText(), "Garmin conectado")
	assert.True(t, env.snapshot().Activity.IsConnected)

	env.handle(t, command("/conectar Garmin"))
	assert.Contains(t, env.api.lastText(), "Garmin desconectado")
	assert.False(t, env.snapshot().Activity.IsConnected)

	env.handle(t, command("/conectar polar"))
	assert.Contains(t, env.api.lastText(), "Uso: /conectar")
}

func TestAllergiesAndPreferences(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/alergias amendoim, glúten"))
	assert.Contains(t, env.api.lastText(), "Não reconheci: glúten")

	env.handle(t, command("/alergias amendoim, leite"))
	assert.Equal(t, []domain.Allergen{domain.AllergenPeanut, domain.AllergenMilk}, env.snapshot().User.Allergies)

	env.handle(t, command("/dieta vegano"))
	env.handle(t, photo())
	require.NotNil(t, env.ai.lastUser)
	assert.Equal(t, []domain.DietaryPreference{domain.PrefVegan}, env.ai.lastUser.Preferences)

	env.handle(t, command("/alergias nenhuma"))
	assert.Empty(t, env.snapshot().User.Allergies)
}

func TestRenameAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.handle(t, command("/nome Ana Clara"))
	assert.Equal(t, "Ana Clara", env.snapshot().User.Name)

	env.handle(t, command("/nome"))
	assert.Contains(t, env.api.lastText(), "O nome não pode ficar vazio")

	env.sm.SetUserState(telegramID, state.ChatMode)
	env.handle(t, command("/sair"))
	assert.Contains(t, env.api.lastText(), "Até logo")
	assert.Equal(t, session.Initial(), env.snapshot())
	assert.Equal(t, state.None, env.sm.GetUserState(telegramID))

	_, err := env.deps.UserService.Get(context.Background(), UserID(telegramID))
	assert.Error(t, err)
}
