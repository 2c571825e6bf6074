package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

func entry(cal float64, meal domain.MealType, p, c, f string) domain.FoodLogEntry {
	return domain.FoodLogEntry{
		FoodAnalysis: domain.FoodAnalysis{Calories: cal, Protein: p, Carbs: c, Fat: f},
		MealType:     meal,
	}
}

func TestParseGrams(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10g", 10},
		{" 12.5 g", 12.5},
		{"7,5g", 7.5},
		{"0g", 0},
		{"aprox. 5g", 0},
		{"", 0},
		{"-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseGrams(tt.in), 1e-9)
		})
	}
}

func TestSummarize_EmptyLog(t *testing.T) {
	s := Summarize(nil, domain.ActivityData{}, nil)

	assert.Equal(t, 2000, s.DailyGoal)
	assert.Equal(t, 2000.0, s.Target)
	assert.Equal(t, 2000.0, s.Remaining)
	assert.Equal(t, 0.0, s.Progress)
	assert.Equal(t, MacroSplit{Protein: 30, Carbs: 45, Fat: 25}, s.MacroSplit)
	assert.Empty(t, s.Meals)
	assert.False(t, s.IsWeightLoss)
}

func TestSummarize_TotalsAndGrouping(t *testing.T) {
	log := []domain.FoodLogEntry{
		entry(500, domain.MealLunch, "30g", "50g", "20g"),
		entry(300, domain.MealBreakfast, "10g", "40g", "10g"),
		entry(200, domain.MealLunch, "10g", "10g", "x"),
	}
	activity := domain.ActivityData{ActiveCalories: 450, IsConnected: true}
	stats := &domain.UserStats{
		Age: 30, Height: 175, CurrentWeight: 80, TargetWeight: 70, Gender: domain.GenderMale,
	}

	s := Summarize(log, activity, stats)

	assert.Equal(t, 1599, s.DailyGoal)
	assert.Equal(t, 1000.0, s.Consumed)
	assert.Equal(t, 2049.0, s.Target)
	assert.Equal(t, 1049.0, s.Remaining)
	assert.InDelta(t, 48.8, s.Progress, 0.1)
	assert.Len(t, s.Meals[domain.MealLunch], 2)
	assert.Len(t, s.Meals[domain.MealBreakfast], 1)
	assert.Equal(t, MacroTotals{Protein: 50, Carbs: 100, Fat: 30}, s.Macros)
	assert.Equal(t, MacroSplit{Protein: 28, Carbs: 56, Fat: 17}, s.MacroSplit)
	assert.Equal(t, 10.0, s.WeightDiff)
	assert.True(t, s.IsWeightLoss)
}

func TestSummarize_ProgressCapsAt100(t *testing.T) {
	log := []domain.FoodLogEntry{entry(5000, domain.MealDinner, "", "", "")}
	s := Summarize(log, domain.ActivityData{}, nil)

	assert.Equal(t, 100.0, s.Progress)
	assert.Equal(t, -3000.0, s.Remaining)
}
