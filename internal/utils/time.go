package utils

import (
	"time"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

// MinutesSinceMidnight returns the local clock time of t in minutes.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DefaultMealType suggests the meal a photo taken at t most likely belongs to.
func DefaultMealType(t time.Time) domain.MealType {
	switch m := MinutesSinceMidnight(t); {
	case m >= 5*60 && m < 10*60+30:
		return domain.MealBreakfast
	case m >= 10*60+30 && m < 15*60:
		return domain.MealLunch
	case m >= 18*60 && m < 22*60:
		return domain.MealDinner
	default:
		return domain.MealSnack
	}
}
