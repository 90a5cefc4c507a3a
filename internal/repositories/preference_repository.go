package repositories

import (
	"context"
	"fmt"
	"time"

	"cardpay/internal/models"
	"cardpay/internal/repositories/cache"
)

// PreferenceCache is the slice of the redis cache preferences are stored in.
type PreferenceCache interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
}

type PreferenceRepository interface {
	// Load returns the stored preferences; found is false if none are stored.
	Load(ctx context.Context, userID uint) (prefs models.Preferences, found bool, err error)
	Save(ctx context.Context, userID uint, prefs models.Preferences) error
}

type preferenceRepository struct {
	store PreferenceCache
	ttl   time.Duration
}

// NewPreferenceRepository stores preferences in redis. A zero ttl keeps them
// until overwritten.
func NewPreferenceRepository(store PreferenceCache, ttl time.Duration) PreferenceRepository {
	return &preferenceRepository{store: store, ttl: ttl}
}

func preferenceKey(userID uint) string {
	return cache.GenerateKey("prefs", "user", userID)
}

func (r *preferenceRepository) Load(ctx context.Context, userID uint) (models.Preferences, bool, error) {
	var prefs models.Preferences
	found, err := r.store.Get(ctx, preferenceKey(userID), &prefs)
	if err != nil {
		return models.Preferences{}, false, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, found, nil
}

func (r *preferenceRepository) Save(ctx context.Context, userID uint, prefs models.Preferences) error {
	if err := r.store.SetWithTTL(ctx, preferenceKey(userID), prefs, r.ttl); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
