package service

import (
	"context"
	"errors"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
)

// PreferenceServiceOptions groups dependencies for PreferenceService.
type PreferenceServiceOptions struct {
	Repo core.PreferenceRepository
}

// PreferenceService reads and updates per-user display preferences.
type PreferenceService struct {
	repo core.PreferenceRepository
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(opts PreferenceServiceOptions) (*PreferenceService, error) {
	if opts.Repo == nil {
		return nil, errors.New("PreferenceRepository is required")
	}
	return &PreferenceService{repo: opts.Repo}, nil
}

// Get returns the user's preferences, or the defaults when none were saved.
func (s *PreferenceService) Get(ctx context.Context, userID string) (model.Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if apperrors.IsNotFound(err) {
		return model.DefaultPreferences(userID), nil
	}
	if err != nil {
		return model.Preferences{}, err
	}
	return *prefs, nil
}

// Update applies a partial update on top of the current preferences.
func (s *PreferenceService) Update(ctx context.Context, userID string, req model.UpdatePreferencesRequest) (model.Preferences, error) {
	if err := req.Validate(); err != nil {
		return model.Preferences{}, apperrors.Validation(err.Error())
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return model.Preferences{}, err
	}
	saved, err := s.repo.Upsert(ctx, req.Apply(current))
	if err != nil {
		return model.Preferences{}, err
	}
	return *saved, nil
}
