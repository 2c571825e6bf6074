package keyboards

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

// Callback data
const (
	CbScan      = "scan"
	CbDashboard = "dashboard"
	CbRecipes   = "recipes"
	CbCoach     = "coach"
	CbProfile   = "profile"
	CbMainMenu  = "main_menu"

	PrefixLog  = "log:"
	PrefixGoal = "goal:"
)

var goalSlugs = map[string]string{
	"lose":     domain.GoalLoseWeight,
	"gain":     domain.GoalGainMass,
	"maintain": domain.GoalMaintain,
}

// GoalFromCallback resolves the data of a goal button.
func GoalFromCallback(data string) (string, bool) {
	slug, ok := strings.CutPrefix(data, PrefixGoal)
	if !ok {
		return "", false
	}
	goal, ok := goalSlugs[slug]
	return goal, ok
}

// MealFromCallback resolves the data of a meal-type button.
func MealFromCallback(data string) (domain.MealType, bool) {
	slug, ok := strings.CutPrefix(data, PrefixLog)
	if !ok {
		return "", false
	}
	return domain.ParseMealType(slug)
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📷 Analisar prato", CbScan),
			tgbotapi.NewInlineKeyboardButtonData("📊 Painel", CbDashboard),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍳 Receitas", CbRecipes),
			tgbotapi.NewInlineKeyboardButtonData("💬 Coach", CbCoach),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Perfil", CbProfile),
		),
	)
}

// MealTypes offers the meal to log the pending analysis under. selected is
// marked as the suggestion.
func MealTypes(selected domain.MealType) tgbotapi.InlineKeyboardMarkup {
	button := func(m domain.MealType) tgbotapi.InlineKeyboardButton {
		label := string(m)
		if m == selected {
			label = "✅ " + label
		}
		return tgbotapi.NewInlineKeyboardButtonData(label, PrefixLog+m.Slug())
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(domain.MealBreakfast), button(domain.MealLunch)),
		tgbotapi.NewInlineKeyboardRow(button(domain.MealDinner), button(domain.MealSnack)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Nova análise", CbScan),
		),
	)
}

// Goals offers the recipe goals.
func Goals() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(domain.GoalLoseWeight, PrefixGoal+"lose"),
			tgbotapi.NewInlineKeyboardButtonData(domain.GoalGainMass, PrefixGoal+"gain"),
			tgbotapi.NewInlineKeyboardButtonData(domain.GoalMaintain, PrefixGoal+"maintain"),
		),
	)
}

// BackToMenu is a single button returning to the main menu.
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Menu principal", CbMainMenu),
		),
	)
}
