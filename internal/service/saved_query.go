package service

import (
	"context"
	"errors"
	"time"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
)

// SavedQueryServiceOptions groups dependencies for SavedQueryService.
type SavedQueryServiceOptions struct {
	Repo       core.SavedQueryRepository // Required
	Aggregator *RunAggregator            // Required for RunsFor
	Now        func() time.Time          // Optional: clock override for tests
}

// SavedQueryService manages a user's named run queries.
type SavedQueryService struct {
	repo       core.SavedQueryRepository
	aggregator *RunAggregator
	now        func() time.Time
}

// NewSavedQueryService constructs a SavedQueryService.
func NewSavedQueryService(opts SavedQueryServiceOptions) (*SavedQueryService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SavedQueryRepository is required")
	}
	if opts.Aggregator == nil {
		return nil, errors.New("RunAggregator is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SavedQueryService{repo: opts.Repo, aggregator: opts.Aggregator, now: now}, nil
}

// List returns the user's saved queries.
func (s *SavedQueryService) List(ctx context.Context, userID string) ([]*model.SavedQuery, error) {
	return s.repo.List(ctx, userID)
}

// Create saves a new query for the user.
func (s *SavedQueryService) Create(ctx context.Context, userID string, req model.CreateSavedQueryRequest) (*model.SavedQuery, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.repo.Create(ctx, userID, req)
}

// Update renames or edits a saved query.
func (s *SavedQueryService) Update(ctx context.Context, params core.UpdateSavedQueryParams) (*model.SavedQuery, error) {
	if err := params.Req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.repo.Update(ctx, params)
}

// Delete removes a saved query. Missing queries are reported as NotFound.
func (s *SavedQueryService) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("saved query not found")
	}
	return nil
}

// Resolve returns the run query of a saved query re-anchored at the current time.
func (s *SavedQueryService) Resolve(ctx context.Context, userID, id string) (model.RunQuery, error) {
	q, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return model.RunQuery{}, err
	}
	return q.Query(s.now().UTC()), nil
}

// RunsFor resolves a saved query and aggregates its runs.
func (s *SavedQueryService) RunsFor(ctx context.Context, userID, id string) (model.AggregationResult, error) {
	q, err := s.Resolve(ctx, userID, id)
	if err != nil {
		return model.AggregationResult{}, err
	}
	return s.aggregator.FetchAllRuns(ctx, q), nil
}
