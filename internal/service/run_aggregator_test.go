package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/mocks"
)

func makeRuns(prefix string, n int) []model.Run {
	runs := make([]model.Run, n)
	for i := range runs {
		runs[i] = model.Run{
			RunID:         fmt.Sprintf("%s-%d", prefix, i),
			TestStructure: model.TestStructure{RunName: fmt.Sprintf("%s%d", prefix, i), Tags: []string{"t"}},
		}
	}
	return runs
}

func newTestAggregator(t *testing.T, searcher *mocks.MockRunSearcher, maxRuns, batch int) *RunAggregator {
	t.Helper()
	agg, err := NewRunAggregator(RunAggregatorOptions{Searcher: searcher})
	require.NoError(t, err)
	agg.maxRuns = maxRuns
	agg.batchSize = batch
	return agg
}

func testQuery() model.RunQuery {
	to := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	return model.RunQuery{From: to.Add(-24 * time.Hour), To: to, Filter: model.RunSearchFilter{Requestor: "alice"}}
}

func TestNewRunAggregator_RequiresSearcher(t *testing.T) {
	_, err := NewRunAggregator(RunAggregatorOptions{})
	assert.Error(t, err)
}

func TestRunAggregator_EmptyRangeMakesNoCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)
	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).Times(0)

	agg := newTestAggregator(t, searcher, 10, 4)
	q := testQuery()
	q.From, q.To = q.To, q.From

	res := agg.FetchAllRuns(context.Background(), q)

	assert.NotNil(t, res.Runs)
	assert.Empty(t, res.Runs)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_SingleShortPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	q := testQuery()
	searcher.EXPECT().
		SearchRuns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.RunPageRequest) (model.RunPage, error) {
			assert.Equal(t, model.RunSortNewestFirst, req.Sort)
			assert.Equal(t, 4, req.PageSize)
			assert.True(t, req.IncludeCursor)
			assert.Empty(t, req.Cursor)
			assert.Equal(t, q.From, req.From)
			assert.Equal(t, q.To, req.To)
			assert.Equal(t, "alice", req.Filter.Requestor)
			return model.RunPage{Runs: makeRuns("a", 3)}, nil
		}).
		Times(1)

	res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), q)

	assert.Len(t, res.Runs, 3)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_ConcatenatesPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	page1 := makeRuns("p1", 4)
	page2 := makeRuns("p2", 2)
	gomock.InOrder(
		searcher.EXPECT().
			SearchRuns(gomock.Any(), gomock.Cond(func(req model.RunPageRequest) bool { return req.Cursor == "" })).
			Return(model.RunPage{Runs: page1, NextCursor: "c1"}, nil),
		searcher.EXPECT().
			SearchRuns(gomock.Any(), gomock.Cond(func(req model.RunPageRequest) bool { return req.Cursor == "c1" })).
			Return(model.RunPage{Runs: page2}, nil),
	)

	res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), testQuery())

	require.Len(t, res.Runs, 6)
	assert.Equal(t, append(append([]model.Run{}, page1...), page2...), res.Runs)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_TruncatesAtCeiling(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	var all []model.Run
	calls := 0
	searcher.EXPECT().
		SearchRuns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.RunPageRequest) (model.RunPage, error) {
			calls++
			page := makeRuns(fmt.Sprintf("p%d", calls), 4)
			all = append(all, page...)
			return model.RunPage{Runs: page, NextCursor: fmt.Sprintf("c%d", calls)}, nil
		}).
		Times(3)

	res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), testQuery())

	require.Len(t, res.Runs, 10)
	assert.Equal(t, all[:10], res.Runs)
	assert.True(t, res.LimitExceeded)
	assert.Equal(t, 10, cap(res.Runs))
}

func TestRunAggregator_BackendFailureReturnsPartial(t *testing.T) {
	boom := apperrors.Wrap(errors.New("connection refused"), apperrors.ErrCodeUnavailable, "ecosystem unreachable")

	t.Run("fails mid-stream", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		searcher := mocks.NewMockRunSearcher(ctrl)
		gomock.InOrder(
			searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
				Return(model.RunPage{Runs: makeRuns("p1", 4), NextCursor: "c1"}, nil),
			searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
				Return(model.RunPage{}, boom),
		)

		res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), testQuery())

		assert.Len(t, res.Runs, 4)
		assert.False(t, res.LimitExceeded)
	})

	t.Run("fails on first call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		searcher := mocks.NewMockRunSearcher(ctrl)
		searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).Return(model.RunPage{}, boom).Times(1)

		res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), testQuery())

		assert.NotNil(t, res.Runs)
		assert.Empty(t, res.Runs)
		assert.False(t, res.LimitExceeded)
	})
}

func TestRunAggregator_StaleCursorTerminates(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	gomock.InOrder(
		searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
			Return(model.RunPage{Runs: makeRuns("p1", 4), NextCursor: "c1"}, nil),
		searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
			Return(model.RunPage{Runs: makeRuns("p2", 4), NextCursor: "c1"}, nil),
	)

	res := newTestAggregator(t, searcher, 100, 4).FetchAllRuns(context.Background(), testQuery())

	assert.Len(t, res.Runs, 8)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_FullPageWithoutCursorTerminates(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)
	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
		Return(model.RunPage{Runs: makeRuns("p1", 4)}, nil).Times(1)

	res := newTestAggregator(t, searcher, 100, 4).FetchAllRuns(context.Background(), testQuery())

	assert.Len(t, res.Runs, 4)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	pages := map[string]model.RunPage{
		"":   {Runs: makeRuns("p1", 4), NextCursor: "c1"},
		"c1": {Runs: makeRuns("p2", 4), NextCursor: "c2"},
		"c2": {Runs: makeRuns("p3", 1)},
	}
	searcher.EXPECT().
		SearchRuns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.RunPageRequest) (model.RunPage, error) {
			return pages[req.Cursor], nil
		}).
		Times(6)

	agg := newTestAggregator(t, searcher, 100, 4)
	first := agg.FetchAllRuns(context.Background(), testQuery())
	second := agg.FetchAllRuns(context.Background(), testQuery())

	assert.Len(t, first.Runs, 9)
	assert.Equal(t, first, second)
}

func TestRunAggregator_ClonesRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	page := makeRuns("p", 2)
	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).Return(model.RunPage{Runs: page}, nil)

	res := newTestAggregator(t, searcher, 10, 4).FetchAllRuns(context.Background(), testQuery())
	require.Len(t, res.Runs, 2)

	page[0].RunID = "mutated"
	page[0].TestStructure.Tags[0] = "mutated"

	assert.Equal(t, "p-0", res.Runs[0].RunID)
	assert.Equal(t, "t", res.Runs[0].TestStructure.Tags[0])
}

func TestRunAggregator_StopsWhenCanceledBetweenPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	searcher.EXPECT().
		SearchRuns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, model.RunPageRequest) (model.RunPage, error) {
			cancel()
			return model.RunPage{Runs: makeRuns("p1", 4), NextCursor: "c1"}, nil
		}).
		Times(1)

	res := newTestAggregator(t, searcher, 100, 4).FetchAllRuns(ctx, testQuery())

	assert.Len(t, res.Runs, 4)
	assert.False(t, res.LimitExceeded)
}

func TestRunAggregator_EmitsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)
	calls := 0
	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, model.RunPageRequest) (model.RunPage, error) {
			calls++
			return model.RunPage{Runs: makeRuns(fmt.Sprintf("p%d", calls), 4), NextCursor: fmt.Sprintf("c%d", calls)}, nil
		}).
		Times(3)

	sink := &countingSink{}
	agg, err := NewRunAggregator(RunAggregatorOptions{Searcher: searcher, Metrics: sink})
	require.NoError(t, err)
	agg.maxRuns, agg.batchSize = 10, 4

	agg.FetchAllRuns(context.Background(), testQuery())

	assert.Equal(t, "truncated", sink.tag("runs.aggregate", "outcome"))
	assert.Equal(t, int64(3), sink.count("runs.aggregate.pages"))
}

func TestRunAggregator_EmitsCompleteOnStaleCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockRunSearcher(ctrl)
	searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
		Return(model.RunPage{Runs: makeRuns("p", 4), NextCursor: "c1"}, nil).Times(2)

	sink := &countingSink{}
	agg, err := NewRunAggregator(RunAggregatorOptions{Searcher: searcher, Metrics: sink})
	require.NoError(t, err)
	agg.maxRuns, agg.batchSize = 10, 4

	agg.FetchAllRuns(context.Background(), testQuery())

	assert.Equal(t, "complete", sink.tag("runs.aggregate", "outcome"))
	assert.Equal(t, int64(2), sink.count("runs.aggregate.pages"))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "canceled", errorKind(fmt.Errorf("x: %w", context.Canceled)))
	assert.Equal(t, "timeout", errorKind(context.DeadlineExceeded))
	assert.Equal(t, "malformed_response",
		errorKind(apperrors.Wrap(errors.New("eof"), apperrors.ErrCodeMalformedResponse, "bad body")))
	assert.Equal(t, "unknown", errorKind(errors.New("plain")))
}

// countingSink records counters and their last tag set by name.
type countingSink struct {
	mu     sync.Mutex
	counts map[string]int64
	tags   map[string]map[string]string
}

func (s *countingSink) Count(name string, value int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[string]int64{}
		s.tags = map[string]map[string]string{}
	}
	s.counts[name] += value
	s.tags[name] = tags
}

func (s *countingSink) Gauge(string, float64, map[string]string) {}

func (s *countingSink) Timing(string, time.Duration, map[string]string) {}

func (s *countingSink) count(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[name]
}

func (s *countingSink) tag(name, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags[name][key]
}
