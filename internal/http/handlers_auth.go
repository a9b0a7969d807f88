package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// IdPLogoutURL, when set, is returned from Logout so the client can end the IdP session too.
	IdPLogoutURL string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the IdP redirect flow.
// GET /auth/login?redirect_uri=<optional relative path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: errors.New("unable to start login")})
		return
	}

	h.setShortCookie(w, r, oauthStateCookie, result.State)
	h.setShortCookie(w, r, oauthNonceCookie, result.Nonce)
	h.setShortCookie(w, r, postLoginCookie, redirectURI)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the login and redirects to the page the user started from.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if idpErr := q.Get("error"); idpErr != "" {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_rejected", Err: errors.New(idpErr)})
		return
	}
	if code == "" || state == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_callback", Err: errors.New("code and state are required")})
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: errors.New("invalid or missing state parameter")})
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_nonce", Err: errors.New("missing nonce")})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nonceCookie.Value})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_failed", Err: errors.New("login could not be completed")})
		return
	}

	redirectURI := "/"
	if c, cookieErr := r.Cookie(postLoginCookie); cookieErr == nil {
		redirectURI = safeRedirectPath(c.Value)
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)
	h.clearCookie(w, r, postLoginCookie)

	h.logger().InfoContext(r.Context(), "user signed in", "user_id", result.Session.UserID, "role", result.Session.Role)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout deletes the server-side session and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, SessionCookieName)

	resp := map[string]string{"status": "signed_out"}
	if h.IdPLogoutURL != "" {
		resp["redirect_to"] = h.IdPLogoutURL
	}
	WriteJSON(w, http.StatusOK, resp)
}

type statusUser struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}

// Status reports whether the request carries a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil {
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User: &statusUser{
			ID:        session.UserID,
			FirstName: session.FirstName,
			LastName:  session.LastName,
			Email:     session.Email,
			Role:      session.Role,
		},
		ExpiresAt: &session.ExpiresAt,
	})
}

// CSRF returns the double-submit token so API clients can echo it in X-Csrf-Token.
// GET /auth/csrf.
func (h *AuthHandlers) CSRF(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"csrf_token": CSRFTokenFromContext(r.Context())})
}

func (h *AuthHandlers) setShortCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthCookieLifetime.Seconds()),
	})
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   max(int(time.Until(s.ExpiresAt).Seconds()), 1),
	})
}

// clearCookie mirrors the attributes used when setting so browsers match it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
