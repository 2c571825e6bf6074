package domain

import "strings"

// HealthStatus is the overall verdict on a food. Values are the wire strings
// the model is constrained to.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "Saudável"
	HealthStatusModerate HealthStatus = "Moderado"
	HealthStatusAvoid    HealthStatus = "Evitar"
)

var HealthStatuses = []HealthStatus{HealthStatusHealthy, HealthStatusModerate, HealthStatusAvoid}

func (s HealthStatus) Valid() bool {
	switch s {
	case HealthStatusHealthy, HealthStatusModerate, HealthStatusAvoid:
		return true
	}
	return false
}

type MealType string

const (
	MealBreakfast MealType = "Café da Manhã"
	MealLunch     MealType = "Almoço"
	MealDinner    MealType = "Jantar"
	MealSnack     MealType = "Lanche"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Slug is the short ASCII form used in callback data and URLs.
func (m MealType) Slug() string {
	switch m {
	case MealBreakfast:
		return "breakfast"
	case MealLunch:
		return "lunch"
	case MealDinner:
		return "dinner"
	case MealSnack:
		return "snack"
	}
	return ""
}

// ParseMealType accepts either the display value or the slug.
func ParseMealType(s string) (MealType, bool) {
	s = strings.TrimSpace(s)
	for _, m := range MealTypes {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, m.Slug()) {
			return m, true
		}
	}
	return "", false
}

type DietaryPreference string

const (
	PrefVegetarian DietaryPreference = "Vegetariano"
	PrefVegan      DietaryPreference = "Vegano"
	PrefGlutenFree DietaryPreference = "Sem Glúten"
	PrefLactose    DietaryPreference = "Sem Lactose"
	PrefLowCarb    DietaryPreference = "Low Carb"
	PrefKeto       DietaryPreference = "Keto"
	PrefSugarFree  DietaryPreference = "Sem Açúcar"
)

var DietaryPreferences = []DietaryPreference{
	PrefVegetarian, PrefVegan, PrefGlutenFree, PrefLactose, PrefLowCarb, PrefKeto, PrefSugarFree,
}

func ParseDietaryPreference(s string) (DietaryPreference, bool) {
	s = strings.TrimSpace(s)
	for _, p := range DietaryPreferences {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

type Allergen string

const (
	AllergenPeanut    Allergen = "Amendoim"
	AllergenMilk      Allergen = "Leite"
	AllergenEgg       Allergen = "Ovo"
	AllergenWheat     Allergen = "Trigo"
	AllergenSoy       Allergen = "Soja"
	AllergenShellfish Allergen = "Mariscos"
	AllergenTreeNuts  Allergen = "Castanhas"
	AllergenFish      Allergen = "Peixe"
)

var Allergens = []Allergen{
	AllergenPeanut, AllergenMilk, AllergenEgg, AllergenWheat,
	AllergenSoy, AllergenShellfish, AllergenTreeNuts, AllergenFish,
}

func ParseAllergen(s string) (Allergen, bool) {
	s = strings.TrimSpace(s)
	for _, a := range Allergens {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	return "", false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts the wire values and the Portuguese forms.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "masculino":
		return GenderMale, true
	case "female", "f", "feminino":
		return GenderFemale, true
	}
	return "", false
}

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

var ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive}

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive:
		return true
	}
	return false
}

// ParseActivityLevel accepts the wire values and the Portuguese labels.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sedentary", "sedentario", "sedentário":
		return ActivitySedentary, true
	case "light", "leve":
		return ActivityLight, true
	case "moderate", "moderado":
		return ActivityModerate, true
	case "active", "ativo":
		return ActivityActive, true
	}
	return "", false
}

// DeviceSource is a wearable the activity data is imported from.
type DeviceSource string

const (
	DeviceFitbit      DeviceSource = "Fitbit"
	DeviceAppleHealth DeviceSource = "Apple Health"
	DeviceGarmin      DeviceSource = "Garmin"
)

var DeviceSources = []DeviceSource{DeviceFitbit, DeviceAppleHealth, DeviceGarmin}

func ParseDeviceSource(s string) (DeviceSource, bool) {
	s = strings.TrimSpace(s)
	for _, d := range DeviceSources {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	return "", false
}

type View string

const (
	ViewDashboard  View = "DASHBOARD"
	ViewScanner    View = "SCANNER"
	ViewRecipes    View = "RECIPES"
	ViewChat       View = "CHAT"
	ViewProfile    View = "PROFILE"
	ViewOnboarding View = "ONBOARDING"
)

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// Recipe goals offered to the user.
const (
	GoalLoseWeight = "Emagrecer"
	GoalGainMass   = "Ganhar Massa"
	GoalMaintain   = "Manter"
)

var RecipeGoals = []string{GoalLoseWeight, GoalGainMass, GoalMaintain}
