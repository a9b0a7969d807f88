package ecosystem

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/target/runconsole/internal/domain/model"
)

// runsResponse is the run search envelope. Page counters are ignored; the
// cursor drives pagination.
type runsResponse struct {
	Runs       []model.Run `json:"runs"`
	NextCursor string      `json:"nextCursor"`
}

// SearchRuns fetches one page of runs.
func (c *Client) SearchRuns(ctx context.Context, req model.RunPageRequest) (model.RunPage, error) {
	var resp runsResponse
	err := c.doJSON(ctx, call{
		op:     "search_runs",
		method: http.MethodGet,
		path:   "/ras/runs",
		query:  runSearchQuery(req),
	}, &resp)
	if err != nil {
		return model.RunPage{}, err
	}
	if resp.Runs == nil {
		resp.Runs = []model.Run{}
	}
	return model.RunPage{Runs: resp.Runs, NextCursor: resp.NextCursor}, nil
}

func runSearchQuery(req model.RunPageRequest) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("sort", req.Sort)
	if req.PageSize > 0 {
		q.Set("size", strconv.Itoa(req.PageSize))
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if !req.From.IsZero() {
		q.Set("from", req.From.UTC().Format(time.RFC3339))
	}
	if !req.To.IsZero() {
		q.Set("to", req.To.UTC().Format(time.RFC3339))
	}
	f := req.Filter
	set("runname", f.RunName)
	set("requestor", f.Requestor)
	set("group", f.Group)
	set("submissionId", f.SubmissionID)
	set("bundle", f.Bundle)
	set("testname", f.TestName)
	set("result", f.Result)
	set("status", f.Status)
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	set("runId", req.RunID)
	set("detail", req.Detail)
	if req.IncludeCursor {
		q.Set("includeCursor", "true")
	}
	set("cursor", req.Cursor)
	return q
}

// GetRun fetches one run by id.
func (c *Client) GetRun(ctx context.Context, runID string) (model.Run, error) {
	var run model.Run
	err := c.doJSON(ctx, call{op: "get_run", method: http.MethodGet, path: "/ras/runs/" + url.PathEscape(runID)}, &run)
	return run, err
}

// GetRunLog fetches the plain-text run log.
func (c *Client) GetRunLog(ctx context.Context, runID string) (string, error) {
	body, err := c.do(ctx, call{
		op:     "get_run_log",
		method: http.MethodGet,
		path:   "/ras/runs/" + url.PathEscape(runID) + "/runlog",
		accept: "text/plain",
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
