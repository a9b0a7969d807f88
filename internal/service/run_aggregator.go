package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/observability/metrics"
	"github.com/target/runconsole/internal/observability/statsd"
	"github.com/target/runconsole/internal/ports"
)

// RunAggregatorOptions groups dependencies for RunAggregator.
type RunAggregatorOptions struct {
	Searcher ports.RunSearcher // Required: page-fetch capability
	Logger   *slog.Logger      // Optional: structured logger
	Metrics  statsd.Sink       // Optional: metrics sink
}

// RunAggregator assembles a bounded window of runs by following the run
// search cursor until the ecosystem runs out of pages or the display ceiling
// is hit. It keeps no state between calls.
type RunAggregator struct {
	searcher ports.RunSearcher
	logger   *slog.Logger
	metrics  statsd.Sink

	maxRuns   int
	batchSize int
}

// NewRunAggregator constructs a RunAggregator.
func NewRunAggregator(opts RunAggregatorOptions) (*RunAggregator, error) {
	if opts.Searcher == nil {
		return nil, errors.New("RunSearcher is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RunAggregator{
		searcher:  opts.Searcher,
		logger:    logger.With("component", "run_aggregator"),
		metrics:   opts.Metrics,
		maxRuns:   model.MaxDisplayableRuns,
		batchSize: model.RunBatchSize,
	}, nil
}

// FetchAllRuns returns up to MaxDisplayableRuns runs matching q, newest first.
//
// Page fetch failures are logged and end the loop; the runs gathered so far are
// returned and LimitExceeded only reports ceiling truncation. An inverted range
// returns an empty result without contacting the ecosystem.
func (a *RunAggregator) FetchAllRuns(ctx context.Context, q model.RunQuery) model.AggregationResult {
	if q.EmptyRange() {
		metrics.EmitAggregation(a.metrics, metrics.AggregationMetric{Outcome: metrics.OutcomeEmpty})
		return model.AggregationResult{Runs: []model.Run{}}
	}

	start := time.Now()
	filter := q.Filter.Normalize()
	runs := make([]model.Run, 0, a.batchSize)
	outcome := metrics.OutcomeComplete
	var (
		cursor        string
		pages         int
		limitExceeded bool
		errKind       string
	)

	for len(runs) < a.maxRuns {
		if err := ctx.Err(); err != nil {
			outcome, errKind = metrics.OutcomeFailed, errorKind(err)
			a.logger.DebugContext(ctx, "run aggregation canceled",
				"pages", pages,
				"accumulated", len(runs),
			)
			break
		}

		page, err := a.searcher.SearchRuns(ctx, a.pageRequest(q, filter, cursor))
		if err != nil {
			outcome, errKind = metrics.OutcomeFailed, errorKind(err)
			a.logger.ErrorContext(ctx, "run aggregation page fetch failed",
				"error", err,
				"error_kind", errKind,
				"page", pages+1,
				"accumulated", len(runs),
			)
			break
		}
		pages++

		for i := range page.Runs {
			runs = append(runs, page.Runs[i].Clone())
		}

		if len(runs) >= a.maxRuns {
			limitExceeded = true
			outcome = metrics.OutcomeTruncated
			runs = slices.Clip(runs[:a.maxRuns])
			break
		}

		// A missing, repeated, or short page ends the stream.
		if page.NextCursor == "" || page.NextCursor == cursor || len(page.Runs) < a.batchSize {
			break
		}
		cursor = page.NextCursor
	}

	metrics.EmitAggregation(a.metrics, metrics.AggregationMetric{
		Outcome:  outcome,
		Pages:    pages,
		Runs:     len(runs),
		ErrKind:  errKind,
		Duration: time.Since(start),
	})

	return model.AggregationResult{Runs: runs, LimitExceeded: limitExceeded}
}

func (a *RunAggregator) pageRequest(q model.RunQuery, filter model.RunSearchFilter, cursor string) model.RunPageRequest {
	return model.RunPageRequest{
		Sort:          model.RunSortNewestFirst,
		From:          q.From,
		To:            q.To,
		Filter:        filter,
		PageSize:      a.batchSize,
		IncludeCursor: true,
		Cursor:        cursor,
	}
}

// errorKind labels a page fetch failure for logs and metrics so that
// unreachable, rejected and malformed responses can be told apart.
func errorKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return string(apperrors.ErrCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return string(apperrors.ErrCodeTimeout)
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return "unknown"
}
