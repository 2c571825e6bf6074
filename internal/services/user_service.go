package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/nutrition"
)

// UserStore persists profiles. *repository.UserRepository implements it.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID string) error
}

type UserService struct {
	store UserStore
	log   *slog.Logger
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, log: logger.With("users")}
}

func avatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=22c55e&color=fff", url.QueryEscape(name))
}

// Login returns the profile of userID, creating it when absent. An empty
// userID always registers a new user with a generated id.
func (s *UserService) Login(ctx context.Context, userID, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if userID != "" {
		user, err := s.store.Get(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, errors.ErrUserNotFound) {
			return nil, err
		}
	} else {
		if name == "" {
			return nil, errors.NewValidationError("Informe seu nome.")
		}
		userID = "user-" + uuid.NewString()
	}

	if name == "" {
		name = "Usuário"
	}
	user := &domain.User{
		ID:       userID,
		Name:     name,
		Email:    strings.TrimSpace(email),
		PhotoURL: avatarURL(name),
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.Get(ctx, userID)
}

// CompleteOnboarding stores validated biometrics and dietary context.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID string, stats *domain.UserStats, prefs []domain.DietaryPreference, allergies []domain.Allergen) (*domain.User, error) {
	if err := nutrition.ValidateStats(stats); err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(u *domain.User) error {
		statsCopy := *stats
		u.Stats = &statsCopy
		u.Preferences = append([]domain.DietaryPreference(nil), prefs...)
		u.Allergies = append([]domain.Allergen(nil), allergies...)
		return nil
	})
}

func (s *UserService) UpdateStats(ctx context.Context, userID string, stats *domain.UserStats) (*domain.User, error) {
	if err := nutrition.ValidateStats(stats); err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(u *domain.User) error {
		statsCopy := *stats
		u.Stats = &statsCopy
		return nil
	})
}

func (s *UserService) SetPreferences(ctx context.Context, userID string, prefs []domain.DietaryPreference) (*domain.User, error) {
	return s.update(ctx, userID, func(u *domain.User) error {
		u.Preferences = append([]domain.DietaryPreference(nil), prefs...)
		return nil
	})
}

func (s *UserService) SetAllergies(ctx context.Context, userID string, allergies []domain.Allergen) (*domain.User, error) {
	return s.update(ctx, userID, func(u *domain.User) error {
		u.Allergies = append([]domain.Allergen(nil), allergies...)
		return nil
	})
}

// Rename trims name and rejects an empty result.
func (s *UserService) Rename(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("O nome não pode ficar vazio.")
	}
	return s.update(ctx, userID, func(u *domain.User) error {
		u.Name = name
		return nil
	})
}

// Logout forgets the local profile.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("User logged out", "user_id", userID)
	return nil
}

func (s *UserService) update(ctx context.Context, userID string, mutate func(*domain.User) error) (*domain.User, error) {
	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(user); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ParsePreferences maps free text such as "vegano, keto" to preferences and
// reports the items it did not recognise.
func ParsePreferences(text string) ([]domain.DietaryPreference, []string) {
	var prefs []domain.DietaryPreference
	var unknown []string
	for _, item := range splitList(text) {
		if p, ok := domain.ParseDietaryPreference(item); ok {
			prefs = appendUnique(prefs, p)
		} else {
			unknown = append(unknown, item)
		}
	}
	return prefs, unknown
}

func ParseAllergies(text string) ([]domain.Allergen, []string) {
	var allergies []domain.Allergen
	var unknown []string
	for _, item := range splitList(text) {
		if a, ok := domain.ParseAllergen(item); ok {
			allergies = appendUnique(allergies, a)
		} else {
			unknown = append(unknown, item)
		}
	}
	return allergies, unknown
}

func splitList(text string) []string {
	var items []string
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func appendUnique[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
