package domain

import "time"

// UserStats are the biometrics collected at onboarding.
type UserStats struct {
	Age           int           `json:"age" validate:"required|min:10|max:120"`
	Height        float64       `json:"height" validate:"required|min:50|max:250"`
	CurrentWeight float64       `json:"currentWeight" validate:"required|min:20|max:400"`
	TargetWeight  float64       `json:"targetWeight" validate:"required|min:20|max:400"`
	Gender        Gender        `json:"gender"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// User is the authenticated person. The profile is persisted as one JSON blob.
type User struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	PhotoURL    string              `json:"photoUrl,omitempty"`
	Stats       *UserStats          `json:"stats,omitempty"`
	Preferences []DietaryPreference `json:"preferences,omitempty"`
	Allergies   []Allergen          `json:"allergies,omitempty"`
}

// FoodAnalysis is produced by the remote capability or the analysis cache
// and is never modified afterwards.
type FoodAnalysis struct {
	Name                  string       `json:"name"`
	Status                HealthStatus `json:"status"`
	HealthScore           int          `json:"healthScore"`
	Calories              float64      `json:"calories"`
	Protein               string       `json:"protein"`
	Carbs                 string       `json:"carbs"`
	Fat                   string       `json:"fat"`
	Sugar                 string       `json:"sugar"`
	Description           string       `json:"description"`
	Alternatives          []string     `json:"alternatives"`
	HarmfulIngredients    []string     `json:"harmfulIngredients"`
	BeneficialIngredients []string     `json:"beneficialIngredients"`
	AllergyWarning        string       `json:"allergyWarning,omitempty"`
}

// FoodLogEntry is a FoodAnalysis committed to the log.
type FoodLogEntry struct {
	FoodAnalysis
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"` // unix milliseconds
	MealType  MealType `json:"mealType"`
}

func (e FoodLogEntry) LoggedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// ActivityData is simulated wearable data.
type ActivityData struct {
	Steps          int           `json:"steps"`
	ActiveCalories int           `json:"activeCalories"`
	HeartRate      int           `json:"heartRate"`
	Source         *DeviceSource `json:"source"`
	IsConnected    bool          `json:"isConnected"`
}

type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Calories     float64  `json:"calories"`
	Time         string   `json:"time"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type ChatMessage struct {
	ID   string   `json:"id"`
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
