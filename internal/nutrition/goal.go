package nutrition

import (
	"math"

	"github.com/gookit/validate"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	apperrors "github.com/vladimiradmaev/fitscan-coach/internal/errors"
)

const (
	// DefaultDailyGoal is returned when no biometrics are known.
	DefaultDailyGoal = 2000

	sedentaryMultiplier = 1.2
	lossDeficit         = 500
	gainSurplus         = 300
)

// BMR is the Mifflin–St Jeor basal metabolic rate in kcal/day.
func BMR(stats domain.UserStats) float64 {
	bmr := 10*stats.CurrentWeight + 6.25*stats.Height - 5*float64(stats.Age)
	if stats.Gender == domain.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// DailyCalorieGoal maps biometrics to a daily calorie target. Inputs are used
// as given; range checks belong to ValidateStats at the point of entry.
func DailyCalorieGoal(stats *domain.UserStats) int {
	if stats == nil {
		return DefaultDailyGoal
	}

	goal := BMR(*stats) * sedentaryMultiplier
	switch {
	case stats.TargetWeight < stats.CurrentWeight:
		goal -= lossDeficit
	case stats.TargetWeight > stats.CurrentWeight:
		goal += gainSurplus
	}

	// half-up, so x.5 always rounds towards +inf
	return int(math.Floor(goal + 0.5))
}

// ValidateStats rejects biometrics outside plausible human ranges.
func ValidateStats(stats *domain.UserStats) error {
	if stats == nil {
		return apperrors.NewValidationError("Informe seus dados corporais")
	}

	v := validate.Struct(stats)
	if !v.Validate() {
		return apperrors.NewValidationError("Dados corporais inválidos: " + v.Errors.One()).
			WithContext("fields", v.Errors.String())
	}

	if stats.Gender != domain.GenderMale && stats.Gender != domain.GenderFemale {
		return apperrors.NewValidationError("Sexo deve ser male ou female")
	}
	if !stats.ActivityLevel.Valid() {
		return apperrors.NewValidationError("Nível de atividade inválido")
	}
	return nil
}
