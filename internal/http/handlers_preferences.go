package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/runconsole/internal/domain/model"
	"github.com/target/runconsole/internal/service"
)

// PreferenceHandlers serves the caller's display preferences.
type PreferenceHandlers struct {
	Svc    *service.PreferenceService
	Logger *slog.Logger
}

// Get returns stored preferences or the defaults.
// GET /api/preferences.
func (h *PreferenceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	prefs, err := h.Svc.Get(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}

// Update applies a partial update.
// PUT /api/preferences.
func (h *PreferenceHandlers) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req model.UpdatePreferencesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	prefs, err := h.Svc.Update(r.Context(), session.UserID, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}
