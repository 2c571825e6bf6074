// Package session holds the per-user application state and the transitions
// between its values.
package session

import (
	"slices"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

// Simulated wearable readings imported when a device is connected.
const (
	SimulatedSteps          = 8432
	SimulatedActiveCalories = 450
	SimulatedHeartRate      = 72
)

// AppState is everything a signed-in (or guest) session sees. Values are
// treated as immutable; Reduce returns a new state.
type AppState struct {
	User            *domain.User          `json:"user"`
	View            domain.View           `json:"view"`
	FoodLog         []domain.FoodLogEntry `json:"foodLog"`
	Activity        domain.ActivityData   `json:"activity"`
	PendingAnalysis *domain.FoodAnalysis  `json:"pendingAnalysis,omitempty"`
	LastRecipe      *domain.Recipe        `json:"lastRecipe,omitempty"`
	Transcript      []domain.ChatMessage  `json:"transcript"`
}

// Initial is the state of a fresh session.
func Initial() AppState {
	return AppState{View: domain.ViewScanner}
}

// Action is a state transition. The set is closed.
type Action interface {
	isAction()
}

type LoggedIn struct{ User *domain.User }

type LoggedOut struct{}

type OnboardingCompleted struct {
	Stats     domain.UserStats
	Prefs     []domain.DietaryPreference
	Allergies []domain.Allergen
}

type Renamed struct{ Name string }

// ProfileUpdated replaces the user with a freshly loaded profile and keeps
// the current view.
type ProfileUpdated struct{ User *domain.User }

type AnalysisReady struct{ Analysis *domain.FoodAnalysis }

// FoodLogged commits the pending analysis. ID and At (unix ms) are supplied
// by the caller so that Reduce stays pure.
type FoodLogged struct {
	ID       string
	At       int64
	MealType domain.MealType
}

type DeviceToggled struct{ Source domain.DeviceSource }

type RecipeGenerated struct{ Recipe *domain.Recipe }

type ChatAppended struct{ Messages []domain.ChatMessage }

type Navigated struct{ View domain.View }

func (LoggedIn) isAction()            {}
func (LoggedOut) isAction()           {}
func (OnboardingCompleted) isAction() {}
func (Renamed) isAction()             {}
func (ProfileUpdated) isAction()      {}
func (AnalysisReady) isAction()       {}
func (FoodLogged) isAction()          {}
func (DeviceToggled) isAction()       {}
func (RecipeGenerated) isAction()     {}
func (ChatAppended) isAction()        {}
func (Navigated) isAction()           {}

// Reduce applies action to s and returns the resulting state. s is not
// modified.
func Reduce(s AppState, action Action) AppState {
	switch a := action.(type) {
	case LoggedIn:
		s.User = cloneUser(a.User)
		if s.User == nil || s.User.Stats == nil {
			s.View = domain.ViewOnboarding
		} else {
			s.View = domain.ViewScanner
		}

	case LoggedOut:
		return Initial()

	case OnboardingCompleted:
		if s.User == nil {
			return s
		}
		u := cloneUser(s.User)
		stats := a.Stats
		u.Stats = &stats
		u.Preferences = slices.Clone(a.Prefs)
		u.Allergies = slices.Clone(a.Allergies)
		s.User = u
		s.View = domain.ViewDashboard

	case Renamed:
		if s.User == nil {
			return s
		}
		u := cloneUser(s.User)
		u.Name = a.Name
		s.User = u

	case ProfileUpdated:
		s.User = cloneUser(a.User)

	case AnalysisReady:
		s.PendingAnalysis = a.Analysis

	case FoodLogged:
		if s.PendingAnalysis == nil {
			return s
		}
		entry := domain.FoodLogEntry{
			FoodAnalysis: *s.PendingAnalysis,
			ID:           a.ID,
			Timestamp:    a.At,
			MealType:     a.MealType,
		}
		log := make([]domain.FoodLogEntry, 0, len(s.FoodLog)+1)
		log = append(log, entry)
		s.FoodLog = append(log, s.FoodLog...)
		s.PendingAnalysis = nil
		s.View = domain.ViewDashboard

	case DeviceToggled:
		if s.Activity.IsConnected && s.Activity.Source != nil && *s.Activity.Source == a.Source {
			s.Activity = domain.ActivityData{}
		} else {
			source := a.Source
			s.Activity = domain.ActivityData{
				Steps:          SimulatedSteps,
				ActiveCalories: SimulatedActiveCalories,
				HeartRate:      SimulatedHeartRate,
				Source:         &source,
				IsConnected:    true,
			}
		}

	case RecipeGenerated:
		s.LastRecipe = a.Recipe

	case ChatAppended:
		transcript := make([]domain.ChatMessage, 0, len(s.Transcript)+len(a.Messages))
		transcript = append(transcript, s.Transcript...)
		s.Transcript = append(transcript, a.Messages...)

	case Navigated:
		s.View = a.View
	}
	return s
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Stats != nil {
		stats := *u.Stats
		c.Stats = &stats
	}
	c.Preferences = slices.Clone(u.Preferences)
	c.Allergies = slices.Clone(u.Allergies)
	return &c
}
