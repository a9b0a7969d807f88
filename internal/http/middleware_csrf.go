package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the default name for the CSRF header (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the default length of the CSRF token in bytes.
	DefaultCSRFTokenLength = 32
)

var errCSRF = errors.New("CSRF token missing or invalid")

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string // default "csrf_token"
	HeaderName    string // default "X-Csrf-Token"
	FormFieldName string // default "csrf_token"; used by the logout form
	CookieDomain  string
	TokenLength   int // bytes of entropy, default 32
	// TrustedOrigin, when set, rejects state-changing requests whose Origin
	// header names a different scheme://host[:port].
	TrustedOrigin string
}

func (c *CSRFConfig) setDefaults() {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	if c.TokenLength == 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
}

// CSRFProtection returns a middleware implementing the double-submit cookie
// pattern. A token cookie is issued when missing; state-changing requests must
// echo it in the header (API clients) or form field (logout form).
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg.setDefaults()
	trusted := originOf(cfg.TrustedOrigin)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				token = c.Value
			}

			if requiresCSRFValidation(r.Method) {
				if !originAllowed(r, trusted) || !validateCSRFToken(r, token, cfg) {
					WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf_failed", Err: errCSRF})
					return
				}
			} else if token == "" {
				var err error
				if token, err = generateCSRFToken(cfg.TokenLength); err != nil {
					WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false, // read by the browser client to echo in the header
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   12 * 3600,
				})
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed: no predictable fallback token.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func validateCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}

	submitted := r.Header.Get(cfg.HeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
			submitted = r.PostFormValue(cfg.FormFieldName)
		}
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

// originOf reduces a URL to its lowercased scheme://host[:port], or "" when
// it has no scheme or host.
func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// originAllowed passes requests without an Origin header. The token check
// still applies to them.
func originAllowed(r *http.Request, trusted string) bool {
	origin := r.Header.Get("Origin")
	if trusted == "" || origin == "" {
		return true
	}
	return originOf(origin) == trusted
}

type csrfTokenKey struct{}

// CSRFTokenFromContext returns the token issued or accepted for this request.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// isSecureRequest accounts for TLS terminated at a proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
