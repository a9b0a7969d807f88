// Package metrics defines the console's metric names and tag sets on top of a statsd.Sink.
package metrics

import (
	"strconv"
	"time"

	"github.com/target/runconsole/internal/observability/statsd"
)

// Aggregation outcomes used as the "outcome" tag.
const (
	OutcomeComplete  = "complete"
	OutcomeTruncated = "truncated"
	OutcomeFailed    = "failed"
	OutcomeEmpty     = "empty_range"
)

// AggregationMetric summarizes one run aggregation.
type AggregationMetric struct {
	Outcome  string
	Pages    int
	Runs     int
	ErrKind  string
	Duration time.Duration
}

// EmitAggregation emits the counters and timing for a finished aggregation.
func EmitAggregation(sink statsd.Sink, in AggregationMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"outcome": in.Outcome}
	if in.ErrKind != "" {
		tags["error_kind"] = in.ErrKind
	}

	sink.Count("runs.aggregate", 1, tags)
	sink.Count("runs.aggregate.pages", int64(in.Pages), CloneTags(tags))
	sink.Gauge("runs.aggregate.size", float64(in.Runs), CloneTags(tags))
	if in.Duration > 0 {
		sink.Timing("runs.aggregate.duration", in.Duration, CloneTags(tags))
	}
}

// UpstreamMetric describes one HTTP exchange with the ecosystem API.
type UpstreamMetric struct {
	Operation string
	Status    int // 0 when no response was received
	Duration  time.Duration
}

// EmitUpstreamRequest records an ecosystem API call.
func EmitUpstreamRequest(sink statsd.Sink, in UpstreamMetric) {
	if sink == nil {
		return
	}

	status := "none"
	if in.Status > 0 {
		status = strconv.Itoa(in.Status)
	}
	tags := map[string]string{"operation": in.Operation, "status": status}

	sink.Count("upstream.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("upstream.request.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k != "" {
			out[k] = v
		}
	}
	return out
}
