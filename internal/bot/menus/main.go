package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitscan-coach/internal/bot/keyboards"
	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
)

// Telegram rejects captions longer than 1024 characters.
const maxCaptionLength = 1024

// Sender is the part of the bot API used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const HelpText = `Comandos disponíveis:
/menu - Menu principal
/painel - Resumo do dia
/perfil <idade> <altura> <peso> <meta> <m|f> [atividade] - Dados corporais
/dieta <preferências> - Ex.: /dieta Vegano, Sem Glúten
/alergias <alergênicos> - Ex.: /alergias Amendoim, Leite
/nome <novo nome> - Alterar seu nome
/receita <ingredientes> - Gerar uma receita
/coach - Conversar com o coach
/conectar <Fitbit|Apple Health|Garmin> - Conectar ou desconectar dispositivo
/sair - Sair e apagar seu perfil

Envie uma foto do prato a qualquer momento para analisá-lo.`

const onboardingHint = "Para calcular sua meta diária, informe seus dados:\n" +
	"/perfil <idade> <altura cm> <peso kg> <meta kg> <m|f> [sedentário|leve|moderado|ativo]\n" +
	"Exemplo: /perfil 30 175 82 75 m moderado"

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64, user *domain.User) error {
	name := "por aqui"
	if user != nil && user.Name != "" {
		name = user.Name
	}
	text := fmt.Sprintf("🥗 Olá, %s!\n\n"+
		"📷 Envie uma foto do seu prato e eu digo calorias, macros e se combina com a sua dieta.\n"+
		"🍳 Peça receitas com o que você tem em casa.\n"+
		"💬 Converse com o coach sobre nutrição e treinos.", name)
	if user == nil || user.Stats == nil {
		text += "\n\n" + onboardingHint
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends plain text with the back-to-menu button.
func SendText(api Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

func statusIcon(s domain.HealthStatus) string {
	switch s {
	case domain.HealthStatusHealthy:
		return "🟢"
	case domain.HealthStatusModerate:
		return "🟡"
	default:
		return "🔴"
	}
}

// EscapeMarkdown escapes the characters legacy Markdown treats as markup.
func EscapeMarkdown(s string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "`", "\\`")
	return strings.ToValidUTF8(r.Replace(s), "")
}

// AnalysisCard renders an analysis as a Markdown photo caption.
func AnalysisCard(a *domain.FoodAnalysis) string {
	var b strings.Builder
	if a.AllergyWarning != "" {
		fmt.Fprintf(&b, "⚠️ *ALERTA DE ALERGIA:* %s\n\n", EscapeMarkdown(a.AllergyWarning))
	}
	fmt.Fprintf(&b, "🍽️ *%s*\n", EscapeMarkdown(a.Name))
	fmt.Fprintf(&b, "%s %s · Nota %d/100\n", statusIcon(a.Status), a.Status, a.HealthScore)
	fmt.Fprintf(&b, "🔥 %.0f kcal\n", a.Calories)
	fmt.Fprintf(&b, "Prot %s · Carb %s · Gord %s · Açúcar %s\n",
		EscapeMarkdown(a.Protein), EscapeMarkdown(a.Carbs), EscapeMarkdown(a.Fat), EscapeMarkdown(a.Sugar))
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", EscapeMarkdown(a.Description))
	}
	if len(a.BeneficialIngredients) > 0 {
		fmt.Fprintf(&b, "\n✅ *Benefícios:* %s\n", EscapeMarkdown(strings.Join(a.BeneficialIngredients, ", ")))
	}
	if len(a.HarmfulIngredients) > 0 {
		fmt.Fprintf(&b, "❌ *Atenção:* %s\n", EscapeMarkdown(strings.Join(a.HarmfulIngredients, ", ")))
	}
	if len(a.Alternatives) > 0 && a.HealthScore < 70 {
		b.WriteString("\n💡 *Alternativas mais saudáveis:*\n")
		for _, alt := range a.Alternatives {
			fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(alt))
		}
	}
	b.WriteString("\nEm qual refeição registrar?")
	return truncate(b.String(), maxCaptionLength)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// DashboardText renders the day summary.
func DashboardText(s nutrition.DashboardSummary) string {
	var b strings.Builder
	b.WriteString("📊 Painel de hoje\n\n")
	fmt.Fprintf(&b, "Meta: %.0f kcal", s.Target)
	if s.Activity.ActiveCalories > 0 {
		fmt.Fprintf(&b, " (%d + %d ativas)", s.DailyGoal, s.Activity.ActiveCalories)
	}
	fmt.Fprintf(&b, "\nConsumido: %.0f kcal\n", s.Consumed)
	if s.Remaining >= 0 {
		fmt.Fprintf(&b, "Restante: %.0f kcal\n", s.Remaining)
	} else {
		fmt.Fprintf(&b, "Acima da meta: %.0f kcal\n", -s.Remaining)
	}
	fmt.Fprintf(&b, "Progresso: %.0f%%\n\n", s.Progress)

	fmt.Fprintf(&b, "Proteínas %.0fg (%d%%) · Carboidratos %.0fg (%d%%) · Gorduras %.0fg (%d%%)\n",
		s.Macros.Protein, s.MacroSplit.Protein,
		s.Macros.Carbs, s.MacroSplit.Carbs,
		s.Macros.Fat, s.MacroSplit.Fat)

	if s.Activity.IsConnected && s.Activity.Source != nil {
		fmt.Fprintf(&b, "\n⌚ %s: %d passos · %d kcal ativas · %d bpm\n",
			*s.Activity.Source, s.Activity.Steps, s.Activity.ActiveCalories, s.Activity.HeartRate)
	}

	for _, meal := range domain.MealTypes {
		entries := s.Meals[meal]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", meal)
		for _, e := range entries {
			fmt.Fprintf(&b, "• %s · %.0f kcal\n", e.Name, e.Calories)
		}
	}

	if s.WeightDiff != 0 {
		verb := "ganhar"
		if s.IsWeightLoss {
			verb = "perder"
		}
		diff := s.WeightDiff
		if diff < 0 {
			diff = -diff
		}
		fmt.Fprintf(&b, "\n🎯 Faltam %.1f kg para %s até a meta.", diff, verb)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProfileText renders the user's profile and daily goal.
func ProfileText(user *domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", user.Name)
	if user.Email != "" {
		fmt.Fprintf(&b, "%s\n", user.Email)
	}
	if st := user.Stats; st != nil {
		fmt.Fprintf(&b, "\n%d anos · %.0f cm · %.1f kg (meta %.1f kg)\n", st.Age, st.Height, st.CurrentWeight, st.TargetWeight)
		fmt.Fprintf(&b, "Sexo: %s · Atividade: %s\n", st.Gender, st.ActivityLevel)
		fmt.Fprintf(&b, "Meta diária: %d kcal\n", nutrition.DailyCalorieGoal(st))
	} else {
		fmt.Fprintf(&b, "\n%s\n", onboardingHint)
	}
	fmt.Fprintf(&b, "\nDieta: %s\n", joinOrNone(user.Preferences))
	fmt.Fprintf(&b, "Alergias: %s", joinOrNone(user.Allergies))
	return b.String()
}

// RecipeText renders a generated recipe.
func RecipeText(r *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍳 %s\n", r.Title)
	fmt.Fprintf(&b, "🔥 %.0f kcal · ⏱ %s\n\nIngredientes:\n", r.Calories, r.Time)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "• %s\n", ing)
	}
	b.WriteString("\nModo de preparo:\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "nenhuma"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}
