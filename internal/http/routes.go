// Package httpx is the JSON HTTP surface of the run console: auth routes,
// the run browser, token and user administration, and per-user settings.
package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Runs         *service.RunService
	Tokens       *service.TokenService
	Users        *service.UserService
	Preferences  *service.PreferenceService
	SavedQueries *service.SavedQueryService
	HealthChecks []HealthCheck

	CookieDomain string
	// PublicURL is the console's external base URL. Its origin is the only
	// one allowed to send state-changing requests.
	PublicURL    string
	IdPLogoutURL string
	// Compression is applied when non-nil.
	Compression *CompressionConfig
	Logger      *slog.Logger
	Now         func() time.Time // Optional: clock for default run ranges
}

// NewRouter creates the mux and wraps it in the middleware chain
// Recover → Logging → Compression → CSRF.
func NewRouter(s RouterServices) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	health := &HealthHandlers{Checks: s.HealthChecks, Logger: logger}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)

	registerAuthRoutes(mux, &AuthHandlers{
		Svc:          s.Auth,
		CookieDomain: s.CookieDomain,
		IdPLogoutURL: s.IdPLogoutURL,
		Logger:       logger,
	})

	authed := RequireAuth(s.Auth)
	user := RequireRole(s.Auth, domainauth.RoleUser)
	admin := RequireRole(s.Auth, domainauth.RoleAdmin)

	if s.Runs != nil {
		registerRunRoutes(mux, &RunHandlers{Svc: s.Runs, Prefs: s.Preferences, Logger: logger, Now: s.Now}, user)
	}
	if s.Tokens != nil {
		registerTokenRoutes(mux, &TokenHandlers{Svc: s.Tokens, Logger: logger}, user)
	}
	if s.Users != nil {
		registerUserRoutes(mux, &UserHandlers{Svc: s.Users, Logger: logger}, user, admin)
	}
	if s.Preferences != nil {
		registerPreferenceRoutes(mux, &PreferenceHandlers{Svc: s.Preferences, Logger: logger}, authed)
	}
	if s.SavedQueries != nil {
		registerSavedQueryRoutes(mux, &SavedQueryHandlers{Svc: s.SavedQueries, Logger: logger}, user)
	}

	var h http.Handler = mux
	h = CSRFProtection(CSRFConfig{CookieDomain: s.CookieDomain, TrustedOrigin: s.PublicURL})(h)
	if s.Compression != nil {
		cfg := *s.Compression
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		h = Compression(cfg)(h)
	}
	h = Logging(logger)(h)
	return Recover(logger)(h)
}

type middleware = func(http.Handler) http.Handler

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/csrf", h.CSRF)
}

func registerRunRoutes(mux *http.ServeMux, h *RunHandlers, user middleware) {
	mux.Handle("GET /api/runs", user(http.HandlerFunc(h.Search)))
	mux.Handle("GET /api/runs/{id}", user(http.HandlerFunc(h.Get)))
	mux.Handle("GET /api/runs/{id}/log", user(http.HandlerFunc(h.Log)))
}

func registerTokenRoutes(mux *http.ServeMux, h *TokenHandlers, user middleware) {
	mux.Handle("GET /api/tokens", user(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/tokens", user(http.HandlerFunc(h.Create)))
	mux.Handle("DELETE /api/tokens/{id}", user(http.HandlerFunc(h.Revoke)))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, user, admin middleware) {
	mux.Handle("GET /api/profile", user(http.HandlerFunc(h.Profile)))
	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/users/{id}/role", admin(http.HandlerFunc(h.UpdateRole)))
	mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /api/roles", admin(http.HandlerFunc(h.Roles)))
}

func registerPreferenceRoutes(mux *http.ServeMux, h *PreferenceHandlers, authed middleware) {
	mux.Handle("GET /api/preferences", authed(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/preferences", authed(http.HandlerFunc(h.Update)))
}

func registerSavedQueryRoutes(mux *http.ServeMux, h *SavedQueryHandlers, user middleware) {
	mux.Handle("GET /api/saved-queries", user(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/saved-queries", user(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/saved-queries/{id}", user(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/saved-queries/{id}", user(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /api/saved-queries/{id}/runs", user(http.HandlerFunc(h.Runs)))
}
