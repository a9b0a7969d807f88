package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthCheck probes one dependency. Name appears in the readiness body.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandlers serves liveness and readiness.
type HealthHandlers struct {
	Checks []HealthCheck
	Logger *slog.Logger
}

// Health answers 200 whenever the process can serve requests. With ?ready=1 it
// also runs the dependency checks and answers 503 if any fail.
// GET|HEAD /healthz.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("ready") == "" || len(h.Checks) == 0 {
		writeHealth(w, r, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.Checks))
	for _, c := range h.Checks {
		if err := c.Check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[c.Name] = "error"
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "readiness check failed", "check", c.Name, "error", err)
			}
			continue
		}
		results[c.Name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeHealth(w, r, status, map[string]any{"status": overall, "checks": results})
}

func writeHealth(w http.ResponseWriter, r *http.Request, status int, body any) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, body)
}
