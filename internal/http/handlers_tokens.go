package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/domain/model"
	"github.com/target/runconsole/internal/service"
)

var errNoSession = errors.New("authentication required")

// requireSession returns the session installed by RequireAuth, writing 401 when absent.
func requireSession(w http.ResponseWriter, r *http.Request) (*domainauth.Session, bool) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errNoSession})
		return nil, false
	}
	return session, true
}

// TokenHandlers serves the caller's personal access tokens.
type TokenHandlers struct {
	Svc    *service.TokenService
	Logger *slog.Logger
}

// List returns the caller's tokens.
// GET /api/tokens.
func (h *TokenHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	tokens, err := h.Svc.List(r.Context(), *session)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if tokens == nil {
		tokens = []model.Token{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// Create mints a token. The secret is only ever returned here.
// POST /api/tokens.
func (h *TokenHandlers) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req model.CreateTokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	created, err := h.Svc.Create(r.Context(), *session, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusCreated, created)
}

// Revoke deletes a token.
// DELETE /api/tokens/{id}.
func (h *TokenHandlers) Revoke(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Revoke(r.Context(), *session, r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
