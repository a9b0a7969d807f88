package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CSRFTokenFromContext(r.Context())))
	}))
}

func TestCSRFProtection_IssuesCookieOnSafeRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/csrf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, cookie.Value, rec.Body.String())
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, "existing", rec.Body.String())
}

func TestCSRFProtection_StateChangingRequests(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   int
	}{
		{"no cookie", "", "tok", "", http.StatusForbidden},
		{"no header", "tok", "", "", http.StatusForbidden},
		{"mismatch", "tok", "other", "", http.StatusForbidden},
		{"header match", "tok", "tok", "", http.StatusOK},
		{"form match", "tok", "", "tok", http.StatusOK},
		{"form mismatch", "tok", "", "bad", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.form != "" {
				req = httptest.NewRequest(http.MethodPost, "/auth/logout",
					strings.NewReader(url.Values{DefaultCSRFCookieName: {tt.form}}.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(http.MethodDelete, "/api/tokens/1", nil)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			csrfHandler().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "csrf_failed", decodeBody[errorBody](t, rec).Error)
			}
		})
	}
}

func TestIsSecureRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(req))
	req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isSecureRequest(req))
}

func TestCSRFProtection_TrustedOrigin(t *testing.T) {
	h := CSRFProtection(CSRFConfig{TrustedOrigin: "https://Console.example.com/app"})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{"no origin header", "", http.StatusNoContent},
		{"same origin", "https://console.example.com", http.StatusNoContent},
		{"other host", "https://evil.example.com", http.StatusForbidden},
		{"other scheme", "http://console.example.com", http.StatusForbidden},
		{"other port", "https://console.example.com:8443", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/saved-queries", nil)
			req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
			req.Header.Set(DefaultCSRFHeaderName, "tok")
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOriginOf(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", originOf("http://localhost:8080/runs?x=1"))
	assert.Empty(t, originOf(""))
	assert.Empty(t, originOf("console.example.com"))
}
