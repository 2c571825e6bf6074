package repository

import (
	"context"
	"errors"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
	apperrors "github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/storage"
)

const profileKeyPrefix = "fitscan_user:"

// UserRepository keeps each user profile as one JSON document in the KV store.
type UserRepository struct {
	kv  storage.KV
	log *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(kv storage.KV) *UserRepository {
	return &UserRepository{kv: kv, log: logger.With("user_repository")}
}

func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

// Get returns the stored profile. Absent and unreadable documents both yield
// ErrUserNotFound; the latter is logged.
func (r *UserRepository) Get(ctx context.Context, userID string) (*domain.User, error) {
	key := ProfileKey(userID)
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, key)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		r.log.Warn("Ignoring corrupt user profile", "user_id", userID, "error", err)
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// Save overwrites the whole profile document.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	key := ProfileKey(user.ID)
	if err := r.kv.Set(ctx, key, string(raw)); err != nil {
		return apperrors.NewPersistenceError(err, key)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	key := ProfileKey(userID)
	if err := r.kv.Remove(ctx, key); err != nil {
		return apperrors.NewPersistenceError(err, key)
	}
	return nil
}
