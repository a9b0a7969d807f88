//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

const (
	// MaxDisplayableRuns is the most runs returned by a single aggregation.
	MaxDisplayableRuns = 2000
	// RunBatchSize is the page size requested from the ecosystem per call.
	RunBatchSize = 100
	// RunSortNewestFirst orders runs by submission time, newest first.
	RunSortNewestFirst = "from:desc"
)

// RunSearchFilter holds the optional filters applied to a run search.
// Empty fields are not sent upstream.
type RunSearchFilter struct {
	RunName      string   `json:"runName,omitempty"`
	Requestor    string   `json:"requestor,omitempty"`
	Group        string   `json:"group,omitempty"`
	SubmissionID string   `json:"submissionId,omitempty"`
	Bundle       string   `json:"bundle,omitempty"`
	TestName     string   `json:"testName,omitempty"`
	Result       string   `json:"result,omitempty"`
	Status       string   `json:"status,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Normalize trims whitespace and drops empty tags.
func (f RunSearchFilter) Normalize() RunSearchFilter {
	out := RunSearchFilter{
		RunName:      strings.TrimSpace(f.RunName),
		Requestor:    strings.TrimSpace(f.Requestor),
		Group:        strings.TrimSpace(f.Group),
		SubmissionID: strings.TrimSpace(f.SubmissionID),
		Bundle:       strings.TrimSpace(f.Bundle),
		TestName:     strings.TrimSpace(f.TestName),
		Result:       strings.TrimSpace(f.Result),
		Status:       strings.TrimSpace(f.Status),
	}
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// RunQuery is a time-bounded run search.
type RunQuery struct {
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Filter RunSearchFilter `json:"filter"`
}

// Validate checks that both range bounds are set. An inverted range is valid
// and yields no runs.
func (q RunQuery) Validate() error {
	if q.From.IsZero() {
		return errors.New("from is required")
	}
	if q.To.IsZero() {
		return errors.New("to is required")
	}
	return nil
}

// EmptyRange reports whether the range cannot contain any runs.
func (q RunQuery) EmptyRange() bool {
	return q.From.After(q.To)
}

// RunPageRequest is the full parameter set of one page call to the run search endpoint.
type RunPageRequest struct {
	Sort          string
	From          time.Time
	To            time.Time
	Filter        RunSearchFilter
	Page          int // optional page number; 0 means not sent
	PageSize      int
	RunID         string
	Detail        string
	IncludeCursor bool
	Cursor        string
}

// RunPage is one page of runs and the cursor for the next one.
// NextCursor is empty when the endpoint returned none.
type RunPage struct {
	Runs       []Run  `json:"runs"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// AggregationResult is the accumulated, possibly truncated, run list.
type AggregationResult struct {
	Runs          []Run `json:"runs"`
	LimitExceeded bool  `json:"limitExceeded"`
}
