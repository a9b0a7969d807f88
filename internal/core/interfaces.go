package core

import (
	"context"

	"github.com/target/runconsole/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// PreferenceRepository persists per-user display preferences.
type PreferenceRepository interface {
	// Get returns the stored preferences or a NotFound error when none were saved.
	Get(ctx context.Context, userID string) (*model.Preferences, error)
	Upsert(ctx context.Context, prefs model.Preferences) (*model.Preferences, error)
}

// UpdateSavedQueryParams groups parameters for SavedQueryRepository.Update to keep param count ≤3.
type UpdateSavedQueryParams struct {
	UserID string
	ID     string
	Req    model.UpdateSavedQueryRequest
}

// SavedQueryRepository persists named run queries. Every operation is scoped to one user.
type SavedQueryRepository interface {
	Create(ctx context.Context, userID string, req model.CreateSavedQueryRequest) (*model.SavedQuery, error)
	GetByID(ctx context.Context, userID, id string) (*model.SavedQuery, error)
	List(ctx context.Context, userID string) ([]*model.SavedQuery, error)
	Update(ctx context.Context, params UpdateSavedQueryParams) (*model.SavedQuery, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}
