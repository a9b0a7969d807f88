package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/runconsole/internal/bootstrap"
	"github.com/target/runconsole/internal/domain/datetime"
	"github.com/target/runconsole/internal/domain/model"
	"github.com/target/runconsole/internal/service"
	"github.com/target/runconsole/internal/util"
)

type runsOptions struct {
	From   string
	To     string
	Since  time.Duration
	Zone   string
	JSON   bool
	Filter model.RunSearchFilter
}

func newRunsCmd(a *app) *cobra.Command {
	opts := runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Aggregate runs for a time range using the service token",
		Long: `Fetch every run in the range that matches the filters, newest first, the same
way the console does. At most 2000 runs are returned; a notice is printed when
the range held more.`,
		Example: `  runconsole-admin runs --from 2024-03-01T00:00:00Z --to 2024-03-02T00:00:00Z
  runconsole-admin runs --since 2h --requestor alice --tag nightly --tz America/Chicago`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := opts.query(time.Now())
			if err != nil {
				return err
			}
			loc, err := datetime.LoadZone(opts.Zone)
			if err != nil {
				return err
			}

			client, err := bootstrap.NewEcosystemClient(a.cfg.Upstream, nil, a.logger)
			if err != nil {
				return fmt.Errorf("ecosystem client: %w", err)
			}
			agg, err := service.NewRunAggregator(service.RunAggregatorOptions{Searcher: client, Logger: a.logger})
			if err != nil {
				return err
			}

			result := agg.FetchAllRuns(cmd.Context(), q)
			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printRuns(cmd.OutOrStdout(), result, loc)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.From, "from", "", "Range start (RFC3339); defaults to --since before the end")
	f.StringVar(&opts.To, "to", "", "Range end (RFC3339); defaults to now")
	f.DurationVar(&opts.Since, "since", 24*time.Hour, "Range length when --from is omitted")
	f.StringVar(&opts.Zone, "tz", "UTC", "Zone used to display start times")
	f.BoolVar(&opts.JSON, "json", false, "Print the aggregation result as JSON")
	f.StringVar(&opts.Filter.RunName, "run-name", "", "Filter by run name")
	f.StringVar(&opts.Filter.Requestor, "requestor", "", "Filter by requestor login")
	f.StringVar(&opts.Filter.Group, "group", "", "Filter by group")
	f.StringVar(&opts.Filter.SubmissionID, "submission-id", "", "Filter by submission id")
	f.StringVar(&opts.Filter.Bundle, "bundle", "", "Filter by bundle")
	f.StringVar(&opts.Filter.TestName, "test-name", "", "Filter by test name")
	f.StringVar(&opts.Filter.Result, "result", "", "Filter by result")
	f.StringVar(&opts.Filter.Status, "status", "", "Filter by status")
	f.StringSliceVar(&opts.Filter.Tags, "tag", nil, "Filter by tag (repeatable or comma separated)")
	return cmd
}

// query resolves the flags into a run query. Bounds are normalized to UTC.
func (o runsOptions) query(now time.Time) (model.RunQuery, error) {
	to := now
	if strings.TrimSpace(o.To) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(o.To))
		if err != nil {
			return model.RunQuery{}, fmt.Errorf("--to must be an RFC3339 timestamp: %w", err)
		}
		to = t
	}

	var from time.Time
	if strings.TrimSpace(o.From) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(o.From))
		if err != nil {
			return model.RunQuery{}, fmt.Errorf("--from must be an RFC3339 timestamp: %w", err)
		}
		from = t
	} else {
		if o.Since <= 0 {
			return model.RunQuery{}, errors.New("--since must be greater than zero")
		}
		from = to.Add(-o.Since)
	}

	return model.RunQuery{
		From:   from.UTC(),
		To:     to.UTC(),
		Filter: o.Filter.Normalize(),
	}, nil
}

func printRuns(w io.Writer, result model.AggregationResult, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "RUN ID\tRUN NAME\tREQUESTOR\tSTATUS\tRESULT\tSTARTED\tDURATION\n"); err != nil {
		return err
	}
	for _, r := range result.Runs {
		ts := r.TestStructure
		started := "-"
		if ts.StartTime != nil {
			started = ts.StartTime.In(loc).Format("2006-01-02 15:04 MST")
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID, dash(ts.RunName), dash(ts.Requestor), dash(ts.Status), dash(ts.Result), started,
			util.FormatRunDuration(ts.StartTime, ts.EndTime)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writef(w, "\n%d run(s)\n", len(result.Runs)); err != nil {
		return err
	}
	if result.LimitExceeded {
		return writef(w, "Only the newest %d runs are shown. Narrow the range or add filters to see the rest.\n",
			model.MaxDisplayableRuns)
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
