package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/keyboards"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/menus"
	"github.com/vladimiradmaev/fitscan-coach/internal/bot/state"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
	"github.com/vladimiradmaev/fitscan-coach/internal/services"
	"github.com/vladimiradmaev/fitscan-coach/internal/session"
)

const profileUsage = "Uso: /perfil <idade> <altura cm> <peso kg> <meta kg> <m|f> [sedentário|leve|moderado|ativo]"

// CommandHandler handles bot commands
type CommandHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api API, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	logger.Info("Handling command", "command", message.Command(), "user_id", user.ID)
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	telegramID := message.From.ID

	switch message.Command() {
	case "start", "menu":
		h.stateManager.SetUserState(telegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, user)
	case "help":
		return menus.SendText(h.api, chatID, menus.HelpText)
	case "painel":
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewDashboard})
		return sendDashboard(h.api, h.deps.Sessions, chatID, user.ID)
	case "perfil":
		return h.handleProfile(ctx, chatID, user, args)
	case "dieta":
		return h.handlePreferences(ctx, chatID, user, args)
	case "alergias":
		return h.handleAllergies(ctx, chatID, user, args)
	case "nome":
		return h.handleRename(ctx, chatID, user, args)
	case "receita":
		return startRecipe(h.api, h.stateManager, chatID, telegramID, args)
	case "coach":
		return enterChat(h.api, h.deps, h.stateManager, chatID, telegramID, user.ID)
	case "conectar":
		return h.handleConnect(chatID, user, args)
	case "sair":
		return h.handleLogout(ctx, chatID, telegramID, user)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

func (h *CommandHandler) handleProfile(ctx context.Context, chatID int64, user *domain.User, args string) error {
	if args == "" {
		h.deps.Sessions.Dispatch(user.ID, session.Navigated{View: domain.ViewProfile})
		return menus.SendText(h.api, chatID, menus.ProfileText(user))
	}

	stats, err := ParseStatsArgs(args)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	if user.Stats == nil {
		updated, err := h.deps.UserService.CompleteOnboarding(ctx, user.ID, stats, user.Preferences, user.Allergies)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		h.deps.Sessions.Dispatch(user.ID, session.OnboardingCompleted{
			Stats:     *updated.Stats,
			Prefs:     updated.Preferences,
			Allergies: updated.Allergies,
		})
	} else {
		updated, err := h.deps.UserService.UpdateStats(ctx, user.ID, stats)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		h.deps.Sessions.Dispatch(user.ID, session.ProfileUpdated{User: updated})
	}

	text := fmt.Sprintf("✅ Perfil atualizado. Sua meta diária é de %d kcal.", nutrition.DailyCalorieGoal(stats))
	return menus.SendText(h.api, chatID, text)
}

// ParseStatsArgs reads "<age> <height> <weight> <target> <gender> [activity]".
func ParseStatsArgs(args string) (*domain.UserStats, error) {
	fields := strings.Fields(args)
	if len(fields) < 5 || len(fields) > 6 {
		return nil, errors.NewValidationError(profileUsage)
	}

	age, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errors.NewValidationError("Idade inválida. " + profileUsage)
	}
	var nums [3]float64
	for i, f := range fields[1:4] {
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("Valor inválido: %q. %s", f, profileUsage))
		}
		nums[i] = v
	}
	gender, ok := domain.ParseGender(fields[4])
	if !ok {
		return nil, errors.NewValidationError("Sexo deve ser m ou f. " + profileUsage)
	}
	activity := domain.ActivitySedentary
	if len(fields) == 6 {
		if activity, ok = domain.ParseActivityLevel(fields[5]); !ok {
			return nil, errors.NewValidationError("Nível de atividade inválido. " + profileUsage)
		}
	}

	return &domain.UserStats{
		Age:           age,
		Height:        nums[0],
		CurrentWeight: nums[1],
		TargetWeight:  nums[2],
		Gender:        gender,
		ActivityLevel: activity,
	}, nil
}

func isNone(args string) bool {
	return strings.EqualFold(args, "nenhuma") || strings.EqualFold(args, "nenhum")
}

func (h *CommandHandler) handlePreferences(ctx context.Context, chatID int64, user *domain.User, args string) error {
	if args == "" {
		return menus.SendText(h.api, chatID, "Uso: /dieta <preferências> ou /dieta nenhuma\nOpções: "+joinValues(domain.DietaryPreferences))
	}

	var prefs []domain.DietaryPreference
	if !isNone(args) {
		var unknown []string
		prefs, unknown = services.ParsePreferences(args)
		if len(unknown) > 0 {
			return menus.SendText(h.api, chatID, fmt.Sprintf("Não reconheci: %s\nOpções: %s",
				strings.Join(unknown, ", "), joinValues(domain.DietaryPreferences)))
		}
	}

	updated, err := h.deps.UserService.SetPreferences(ctx, user.ID, prefs)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	h.deps.Sessions.Dispatch(user.ID, session.ProfileUpdated{User: updated})
	return menus.SendText(h.api, chatID, "✅ Preferências salvas. As próximas análises vão considerá-las.")
}

func (h *CommandHandler) handleAllergies(ctx context.Context, chatID int64, user *domain.User, args string) error {
	if args == "" {
		return menus.SendText(h.api, chatID, "Uso: /alergias <alergênicos> ou /alergias nenhuma\nOpções: "+joinValues(domain.Allergens))
	}

	var allergies []domain.Allergen
	if !isNone(args) {
		var unknown []string
		allergies, unknown = services.ParseAllergies(args)
		if len(unknown) > 0 {
			return menus.SendText(h.api, chatID, fmt.Sprintf("Não reconheci: %s\nOpções: %s",
				strings.Join(unknown, ", "), joinValues(domain.Allergens)))
		}
	}

	updated, err := h.deps.UserService.SetAllergies(ctx, user.ID, allergies)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	h.deps.Sessions.Dispatch(user.ID, session.ProfileUpdated{User: updated})
	return menus.SendText(h.api, chatID, "✅ Alergias salvas. Vou avisar quando um prato contiver algum desses itens.")
}

func (h *CommandHandler) handleRename(ctx context.Context, chatID int64, user *domain.User, args string) error {
	updated, err := h.deps.UserService.Rename(ctx, user.ID, args)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	h.deps.Sessions.Dispatch(user.ID, session.Renamed{Name: updated.Name})
	return menus.SendText(h.api, chatID, fmt.Sprintf("✅ Pronto, agora vou te chamar de %s.", updated.Name))
}

func (h *CommandHandler) handleConnect(chatID int64, user *domain.User, args string) error {
	source, ok := domain.ParseDeviceSource(args)
	if !ok {
		return menus.SendText(h.api, chatID, "Uso: /conectar <"+joinValues(domain.DeviceSources)+">")
	}

	s := h.deps.Sessions.Dispatch(user.ID, session.DeviceToggled{Source: source})
	if !s.Activity.IsConnected {
		return menus.SendText(h.api, chatID, fmt.Sprintf("⌚ %s desconectado.", source))
	}
	text := fmt.Sprintf("⌚ %s conectado!\n%d passos · %d kcal ativas · %d bpm\nAs calorias ativas entram na sua meta de hoje.",
		source, s.Activity.Steps, s.Activity.ActiveCalories, s.Activity.HeartRate)
	return menus.SendText(h.api, chatID, text)
}

func (h *CommandHandler) handleLogout(ctx context.Context, chatID, telegramID int64, user *domain.User) error {
	if err := h.deps.UserService.Logout(ctx, user.ID); err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	h.deps.Sessions.Dispatch(user.ID, session.LoggedOut{})
	h.deps.Sessions.Forget(user.ID)
	h.stateManager.ClearUser(telegramID)

	msg := tgbotapi.NewMessage(chatID, "👋 Até logo! Seu perfil foi apagado. Envie /start para começar de novo.")
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Comando desconhecido. Use /help para ver os comandos disponíveis.")
	_, err := h.api.Send(msg)
	return err
}

// startRecipe asks for ingredients, or for the goal when they are given.
func startRecipe(api API, sm state.StateManager, chatID, telegramID int64, ingredients string) error {
	if ingredients == "" {
		sm.SetUserState(telegramID, state.WaitingForIngredients)
		return menus.SendText(api, chatID, "🍳 Quais ingredientes você tem? Ex.: frango, arroz, brócolis")
	}
	return askGoal(api, sm, chatID, telegramID, ingredients)
}

func askGoal(api API, sm state.StateManager, chatID, telegramID int64, ingredients string) error {
	sm.SetUserState(telegramID, state.None)
	sm.SetTempData(telegramID, state.KeyIngredients, ingredients)

	msg := tgbotapi.NewMessage(chatID, "Qual é o seu objetivo com essa receita?")
	msg.ReplyMarkup = keyboards.Goals()
	_, err := api.Send(msg)
	return err
}

// enterChat switches the conversation to the coach.
func enterChat(api API, deps Dependencies, sm state.StateManager, chatID, telegramID int64, sessionID string) error {
	sm.SetUserState(telegramID, state.ChatMode)
	deps.Sessions.Dispatch(sessionID, session.Navigated{View: domain.ViewChat})

	text := services.Greeting().Text + "\n\n(Envie /menu para sair do chat.)"
	return menus.SendText(api, chatID, text)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
