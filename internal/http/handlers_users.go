package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/runconsole/internal/domain/model"
	"github.com/target/runconsole/internal/service"
)

// UserHandlers serves the admin user console and the caller's own profile.
type UserHandlers struct {
	Svc    *service.UserService
	Logger *slog.Logger
}

// List returns users, optionally filtered by ?loginId=.
// GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context(), r.URL.Query().Get("loginId"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get returns a user together with their tokens.
// GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// Profile returns the signed-in user's own account and tokens.
// GET /api/profile.
func (h *UserHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	profile, err := h.Svc.Profile(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// UpdateRole assigns a role to a user.
// PUT /api/users/{id}/role.
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req model.UpdateUserRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.UpdateRole(r.Context(), service.UpdateRoleParams{
		Caller: *session,
		UserID: r.PathValue("id"),
		Req:    req,
	})
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Delete removes a user account.
// DELETE /api/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), *session, r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Roles lists the ecosystem roles.
// GET /api/roles.
func (h *UserHandlers) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Svc.Roles(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if roles == nil {
		roles = []model.Role{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": roles})
}
