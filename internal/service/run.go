package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/ports"
)

const (
	runCacheTTL       = 10 * time.Minute
	runStatusFinished = "finished"
)

// RunServiceOptions groups dependencies for RunService.
type RunServiceOptions struct {
	Aggregator *RunAggregator       // Required
	Reader     ports.RunReader      // Required
	Cache      core.CacheRepository // Optional: caches finished runs
	Logger     *slog.Logger         // Optional
}

// RunService serves run searches, single runs, and run logs.
type RunService struct {
	aggregator *RunAggregator
	reader     ports.RunReader
	cache      core.CacheRepository
	logger     *slog.Logger
}

// NewRunService constructs a RunService.
func NewRunService(opts RunServiceOptions) (*RunService, error) {
	if opts.Aggregator == nil {
		return nil, errors.New("RunAggregator is required")
	}
	if opts.Reader == nil {
		return nil, errors.New("RunReader is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RunService{
		aggregator: opts.Aggregator,
		reader:     opts.Reader,
		cache:      opts.Cache,
		logger:     logger.With("component", "run_service"),
	}, nil
}

// MustNewRunService constructs a RunService and panics on error.
func MustNewRunService(opts RunServiceOptions) *RunService {
	s, err := NewRunService(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Search validates q and aggregates matching runs.
func (s *RunService) Search(ctx context.Context, q model.RunQuery) (model.AggregationResult, error) {
	if err := q.Validate(); err != nil {
		return model.AggregationResult{}, apperrors.Validation(err.Error())
	}
	q.Filter = q.Filter.Normalize()
	return s.aggregator.FetchAllRuns(ctx, q), nil
}

// Get returns one run. Finished runs no longer change, so they are served from cache when possible.
func (s *RunService) Get(ctx context.Context, runID string) (model.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return model.Run{}, apperrors.ValidationField("runId", "run id is required")
	}

	if run, ok := s.cachedRun(ctx, runID); ok {
		return run, nil
	}

	run, err := s.reader.GetRun(ctx, runID)
	if err != nil {
		return model.Run{}, err
	}
	if strings.EqualFold(run.TestStructure.Status, runStatusFinished) {
		s.storeRun(ctx, run)
	}
	return run, nil
}

// Log returns the plain-text log of a run.
func (s *RunService) Log(ctx context.Context, runID string) (string, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return "", apperrors.ValidationField("runId", "run id is required")
	}
	return s.reader.GetRunLog(ctx, runID)
}

func runCacheKey(id string) string { return "run:" + id }

func (s *RunService) cachedRun(ctx context.Context, runID string) (model.Run, bool) {
	if s.cache == nil {
		return model.Run{}, false
	}
	raw, err := s.cache.Get(ctx, runCacheKey(runID))
	if err != nil {
		s.logger.WarnContext(ctx, "run cache read failed", "run_id", runID, "error", err)
		return model.Run{}, false
	}
	if raw == nil {
		return model.Run{}, false
	}
	var run model.Run
	if err := json.Unmarshal(raw, &run); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable cached run", "run_id", runID, "error", err)
		return model.Run{}, false
	}
	return run, true
}

func (s *RunService) storeRun(ctx context.Context, run model.Run) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(run)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, runCacheKey(run.RunID), raw, runCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "run cache write failed", "run_id", run.RunID, "error", err)
	}
}
