package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/runconsole/internal/domain/datetime"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/service"
)

// defaultRunWindow is the range searched when the request names none.
const defaultRunWindow = 24 * time.Hour

// RunHandlers serves run search, detail and log endpoints.
type RunHandlers struct {
	Svc    *service.RunService
	Prefs  *service.PreferenceService // Optional: supplies the user's zone for wall-clock ranges
	Logger *slog.Logger
	Now    func() time.Time
}

// Search aggregates runs for the requested range and filters.
// GET /api/runs.
func (h *RunHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q, err := parseRunQuery(r.URL.Query(), rangeDefaults{now: h.now(), zone: h.zoneFor, req: r})
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	result, err := h.Svc.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Get returns a single run.
// GET /api/runs/{id}.
func (h *RunHandlers) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, run)
}

// Log streams the run log as plain text.
// GET /api/runs/{id}/log.
func (h *RunHandlers) Log(w http.ResponseWriter, r *http.Request) {
	text, err := h.Svc.Log(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *RunHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// zoneFor returns the signed-in user's preferred zone, or UTC.
func (h *RunHandlers) zoneFor(r *http.Request) string {
	if h.Prefs == nil {
		return "UTC"
	}
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		return "UTC"
	}
	prefs, err := h.Prefs.Get(r.Context(), session.UserID)
	if err != nil || prefs.TimeZone == "" {
		return "UTC"
	}
	return prefs.TimeZone
}

type rangeDefaults struct {
	now  time.Time
	zone func(*http.Request) string
	req  *http.Request
}

// parseRunQuery reads a run search from query parameters. The range is given
// either as RFC3339 from/to or as wall-clock triples (fromDate, fromTime,
// fromPeriod and the to* equivalents) interpreted in tz. A missing end defaults
// to now, a missing start to 24 hours before the end.
func parseRunQuery(v url.Values, d rangeDefaults) (model.RunQuery, error) {
	var q model.RunQuery

	var tz string
	zone := func() string {
		if tz != "" {
			return tz
		}
		switch {
		case strings.TrimSpace(v.Get("tz")) != "":
			tz = strings.TrimSpace(v.Get("tz"))
		case d.zone != nil && d.req != nil:
			tz = d.zone(d.req)
		default:
			tz = "UTC"
		}
		return tz
	}

	to, err := parseBound(v, "to", zone)
	if err != nil {
		return q, err
	}
	if to.IsZero() {
		to = d.now
	}
	from, err := parseBound(v, "from", zone)
	if err != nil {
		return q, err
	}
	if from.IsZero() {
		from = to.Add(-defaultRunWindow)
	}

	q.From, q.To = from.UTC(), to.UTC()
	q.Filter = model.RunSearchFilter{
		RunName:      v.Get("runName"),
		Requestor:    v.Get("requestor"),
		Group:        v.Get("group"),
		SubmissionID: v.Get("submissionId"),
		Bundle:       v.Get("bundle"),
		TestName:     v.Get("testName"),
		Result:       v.Get("result"),
		Status:       v.Get("status"),
		Tags:         splitList(v["tags"]),
	}
	return q, nil
}

// parseBound reads one range bound. It returns the zero time when absent.
func parseBound(v url.Values, name string, zone func() string) (time.Time, error) {
	if raw := strings.TrimSpace(v.Get(name)); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, apperrors.ValidationField(name, name+" must be an RFC3339 timestamp")
		}
		return t, nil
	}

	date := v.Get(name + "Date")
	if date == "" {
		return time.Time{}, nil
	}
	clock := v.Get(name + "Time")
	if clock == "" {
		clock = "12:00"
	}
	period := v.Get(name + "Period")
	if period == "" {
		period = string(datetime.AM)
	}

	t, err := datetime.ToInstant(datetime.WallClock{Date: date, Time: clock, Period: datetime.Period(period)}, zone())
	if err != nil {
		return time.Time{}, apperrors.ValidationField(name, err.Error())
	}
	return t, nil
}

// splitList flattens repeated and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
