package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/domain/model"
	"github.com/target/runconsole/internal/service"
)

// SavedQueryHandlers serves the caller's saved run queries.
type SavedQueryHandlers struct {
	Svc    *service.SavedQueryService
	Logger *slog.Logger
}

// List returns the caller's saved queries.
// GET /api/saved-queries.
func (h *SavedQueryHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	queries, err := h.Svc.List(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if queries == nil {
		queries = []*model.SavedQuery{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"saved_queries": queries})
}

// Create saves a query.
// POST /api/saved-queries.
func (h *SavedQueryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req model.CreateSavedQueryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	q, err := h.Svc.Create(r.Context(), session.UserID, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, q)
}

// Update renames or edits a saved query.
// PUT /api/saved-queries/{id}.
func (h *SavedQueryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req model.UpdateSavedQueryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	q, err := h.Svc.Update(r.Context(), core.UpdateSavedQueryParams{
		UserID: session.UserID,
		ID:     r.PathValue("id"),
		Req:    req,
	})
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, q)
}

// Delete removes a saved query.
// DELETE /api/saved-queries/{id}.
func (h *SavedQueryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), session.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Runs re-runs a saved query anchored at the current time.
// GET /api/saved-queries/{id}/runs.
func (h *SavedQueryHandlers) Runs(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	result, err := h.Svc.RunsFor(r.Context(), session.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
