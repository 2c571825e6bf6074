package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

func sampleAnalysis() *domain.FoodAnalysis {
	return &domain.FoodAnalysis{
		Name:        "Salada Caesar",
		Status:      domain.HealthStatusModerate,
		HealthScore: 64,
		Calories:    420,
		Protein:     "18g",
		Carbs:       "22g",
		Fat:         "28g",
		Sugar:       "4g",
	}
}

func TestReduce_LoggedInChoosesView(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{User: &domain.User{ID: "u1", Name: "Ana"}})
	assert.Equal(t, domain.ViewOnboarding, s.View)

	s = Reduce(Initial(), LoggedIn{User: &domain.User{ID: "u1", Stats: &domain.UserStats{Age: 30}}})
	assert.Equal(t, domain.ViewScanner, s.View)
}

func TestReduce_OnboardingCompleted(t *testing.T) {
	user := &domain.User{ID: "u1", Name: "Ana"}
	before := Reduce(Initial(), LoggedIn{User: user})

	after := Reduce(before, OnboardingCompleted{
		Stats:     domain.UserStats{Age: 30, Height: 165, CurrentWeight: 70, TargetWeight: 60},
		Prefs:     []domain.DietaryPreference{domain.PrefKeto},
		Allergies: []domain.Allergen{domain.AllergenPeanut},
	})
	assert.Equal(t, domain.ViewDashboard, after.View)
	require.NotNil(t, after.User.Stats)
	assert.Equal(t, 30, after.User.Stats.Age)
	assert.Equal(t, []domain.Allergen{domain.AllergenPeanut}, after.User.Allergies)

	assert.Nil(t, before.User.Stats, "input state is untouched")
	assert.Nil(t, user.Stats)
}

func TestReduce_FoodLoggedPrependsPending(t *testing.T) {
	pending := sampleAnalysis()
	s := Initial()
	s.FoodLog = []domain.FoodLogEntry{{ID: "old", Timestamp: 1}}
	s = Reduce(s, AnalysisReady{Analysis: pending})

	next := Reduce(s, FoodLogged{ID: "new", At: 1700000000000, MealType: domain.MealLunch})
	require.Len(t, next.FoodLog, 2)
	assert.Equal(t, "new", next.FoodLog[0].ID)
	assert.Equal(t, *pending, next.FoodLog[0].FoodAnalysis)
	assert.Equal(t, domain.MealLunch, next.FoodLog[0].MealType)
	assert.Equal(t, int64(1700000000000), next.FoodLog[0].Timestamp)
	assert.Equal(t, "old", next.FoodLog[1].ID)
	assert.Nil(t, next.PendingAnalysis)
	assert.Equal(t, domain.ViewDashboard, next.View)

	assert.Len(t, s.FoodLog, 1, "input log is untouched")
	assert.NotNil(t, s.PendingAnalysis)
}

func TestReduce_FoodLoggedWithoutPendingIsNoop(t *testing.T) {
	s := Initial()
	next := Reduce(s, FoodLogged{ID: "x", MealType: domain.MealSnack})
	assert.Equal(t, s, next)
}

func TestReduce_DeviceToggled(t *testing.T) {
	s := Reduce(Initial(), DeviceToggled{Source: domain.DeviceFitbit})
	require.True(t, s.Activity.IsConnected)
	assert.Equal(t, SimulatedSteps, s.Activity.Steps)
	assert.Equal(t, SimulatedActiveCalories, s.Activity.ActiveCalories)
	assert.Equal(t, SimulatedHeartRate, s.Activity.HeartRate)
	assert.Equal(t, domain.DeviceFitbit, *s.Activity.Source)

	switched := Reduce(s, DeviceToggled{Source: domain.DeviceGarmin})
	assert.True(t, switched.Activity.IsConnected)
	assert.Equal(t, domain.DeviceGarmin, *switched.Activity.Source)

	off := Reduce(switched, DeviceToggled{Source: domain.DeviceGarmin})
	assert.Equal(t, domain.ActivityData{}, off.Activity)
}

func TestReduce_LoggedOutResets(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{User: &domain.User{ID: "u1"}})
	s = Reduce(s, AnalysisReady{Analysis: sampleAnalysis()})
	s = Reduce(s, FoodLogged{ID: "e1", MealType: domain.MealDinner})
	s = Reduce(s, DeviceToggled{Source: domain.DeviceAppleHealth})
	s = Reduce(s, ChatAppended{Messages: []domain.ChatMessage{{ID: "m1", Role: domain.ChatRoleUser, Text: "oi"}}})

	out := Reduce(s, LoggedOut{})
	assert.Equal(t, Initial(), out)
	assert.False(t, out.Activity.IsConnected)
}

func TestReduce_RenamedAndNavigated(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{User: &domain.User{ID: "u1", Name: "Ana"}})
	renamed := Reduce(s, Renamed{Name: "Ana Clara"})
	assert.Equal(t, "Ana Clara", renamed.User.Name)
	assert.Equal(t, "Ana", s.User.Name)

	assert.Equal(t, Initial(), Reduce(Initial(), Renamed{Name: "x"}), "no user, no change")

	updated := Reduce(onProfile(s), ProfileUpdated{User: &domain.User{ID: "u1", Name: "Ana", Allergies: []domain.Allergen{domain.AllergenEgg}}})
	assert.Equal(t, domain.ViewProfile, updated.View)
	assert.Equal(t, []domain.Allergen{domain.AllergenEgg}, updated.User.Allergies)

	navigated := Reduce(s, Navigated{View: domain.ViewRecipes})
	assert.Equal(t, domain.ViewRecipes, navigated.View)
}

func onProfile(s AppState) AppState {
	return Reduce(s, Navigated{View: domain.ViewProfile})
}

func TestReduce_ChatAppendedDoesNotAlias(t *testing.T) {
	base := Initial()
	base.Transcript = make([]domain.ChatMessage, 1, 4)
	base.Transcript[0] = domain.ChatMessage{ID: "a"}

	one := Reduce(base, ChatAppended{Messages: []domain.ChatMessage{{ID: "b"}}})
	two := Reduce(base, ChatAppended{Messages: []domain.ChatMessage{{ID: "c"}}})
	assert.Equal(t, "b", one.Transcript[1].ID)
	assert.Equal(t, "c", two.Transcript[1].ID)
	assert.Len(t, base.Transcript, 1)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore()
	store.Dispatch("a", DeviceToggled{Source: domain.DeviceFitbit})

	assert.True(t, store.Snapshot("a").Activity.IsConnected)
	assert.False(t, store.Snapshot("b").Activity.IsConnected)

	store.Forget("a")
	assert.Equal(t, Initial(), store.Snapshot("a"))
}

func TestStore_DoSerializesPerSession(t *testing.T) {
	store := NewStore()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Do("s", func(AppState) ([]Action, error) {
				return []Action{
					AnalysisReady{Analysis: sampleAnalysis()},
					FoodLogged{ID: "e", MealType: domain.MealSnack},
				}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.Snapshot("s").FoodLog, n)
}
