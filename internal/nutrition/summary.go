package nutrition

import (
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

// Macro split shown when nothing has been logged yet.
var defaultMacroSplit = MacroSplit{Protein: 30, Carbs: 45, Fat: 25}

type MacroTotals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// MacroSplit holds rounded percentages of the logged macro grams.
type MacroSplit struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

type DashboardSummary struct {
	DailyGoal    int                                      `json:"dailyGoal"`
	Consumed     float64                                  `json:"consumed"`
	Target       float64                                  `json:"target"`
	Remaining    float64                                  `json:"remaining"`
	Progress     float64                                  `json:"progress"`
	Meals        map[domain.MealType][]domain.FoodLogEntry `json:"meals"`
	Macros       MacroTotals                              `json:"macros"`
	MacroSplit   MacroSplit                               `json:"macroSplit"`
	WeightDiff   float64                                  `json:"weightDiff"`
	IsWeightLoss bool                                     `json:"isWeightLoss"`
	Activity     domain.ActivityData                      `json:"activity"`
}

// Summarize aggregates the food log against the daily goal. Active calories
// from a connected device raise the day's target.
func Summarize(log []domain.FoodLogEntry, activity domain.ActivityData, stats *domain.UserStats) DashboardSummary {
	goal := DailyCalorieGoal(stats)
	s := DashboardSummary{
		DailyGoal: goal,
		Target:    float64(goal + activity.ActiveCalories),
		Meals:     make(map[domain.MealType][]domain.FoodLogEntry),
		Activity:  activity,
	}

	for _, entry := range log {
		s.Consumed += entry.Calories
		s.Meals[entry.MealType] = append(s.Meals[entry.MealType], entry)
		s.Macros.Protein += ParseGrams(entry.Protein)
		s.Macros.Carbs += ParseGrams(entry.Carbs)
		s.Macros.Fat += ParseGrams(entry.Fat)
	}

	s.Remaining = s.Target - s.Consumed
	if s.Target > 0 {
		s.Progress = math.Min(s.Consumed/s.Target*100, 100)
	}
	s.MacroSplit = splitMacros(s.Macros)

	if stats != nil {
		s.WeightDiff = stats.CurrentWeight - stats.TargetWeight
		s.IsWeightLoss = s.WeightDiff > 0
	}
	return s
}

func splitMacros(m MacroTotals) MacroSplit {
	total := m.Protein + m.Carbs + m.Fat
	if total <= 0 {
		return defaultMacroSplit
	}
	pct := func(v float64) int { return int(math.Floor(v/total*100 + 0.5)) }
	return MacroSplit{Protein: pct(m.Protein), Carbs: pct(m.Carbs), Fat: pct(m.Fat)}
}

// ParseGrams reads the leading number of a macro string such as "12.5g".
// Anything unparsable counts as zero.
func ParseGrams(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	end := 0
	seenDot := false
scan:
	for ; end < len(s); end++ {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && end == 0:
		default:
			break scan
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
