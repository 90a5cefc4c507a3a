// Package preferences manages per-user settings that shape new card sessions.
package preferences

import (
	"context"

	"cardpay/internal/models"
	"cardpay/internal/repositories"
	"cardpay/internal/validation"
)

type Service interface {
	// Get returns the user's preferences, or the defaults if none are stored.
	Get(ctx context.Context, userID uint) (models.Preferences, error)
	// Update applies a partial update and returns the result.
	Update(ctx context.Context, userID uint, req validation.PreferencesRequest) (models.Preferences, error)
}

type service struct {
	repo repositories.PreferenceRepository
}

func NewService(repo repositories.PreferenceRepository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID uint) (models.Preferences, error) {
	prefs, found, err := s.repo.Load(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	if !found {
		return models.DefaultPreferences(), nil
	}
	if prefs.Locale == "" {
		prefs.Locale = models.DefaultPreferences().Locale
	}
	return prefs, nil
}

func (s *service) Update(ctx context.Context, userID uint, req validation.PreferencesRequest) (models.Preferences, error) {
	if err := req.Validate(); err != nil {
		return models.Preferences{}, err
	}

	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	if req.Locale != nil {
		prefs.Locale = *req.Locale
	}
	if req.CvcVisibleDefault != nil {
		prefs.CvcVisibleDefault = *req.CvcVisibleDefault
	}

	if err := s.repo.Save(ctx, userID, prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}
