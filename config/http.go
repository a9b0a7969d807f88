package config

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	minGzipLevel = 1
	maxGzipLevel = 9
)

// HTTPConfig configures the console's HTTP listener and browser cookies.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is where browsers reach the console, e.g.
	// "https://console.example.com". When set, its origin is the only one
	// allowed to send state-changing requests.
	BaseURL string `env:"APP_BASE_URL"`

	// CookieDomain scopes session and CSRF cookies. Empty means host-only.
	CookieDomain string `env:"APP_COOKIE_DOMAIN"`

	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`
}

// Sanitize clamps the gzip level and drops cookie domains browsers would
// refuse.
func (h *HTTPConfig) Sanitize() {
	h.CompressionLevel = min(max(h.CompressionLevel, minGzipLevel), maxGzipLevel)
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	h.CookieDomain = cookieDomain(h.CookieDomain)
}

// cookieDomain normalizes domain and returns "" for a bare public suffix
// such as "co.uk" or "com".
func cookieDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, ".")
	switch {
	case domain == "", domain == "localhost":
		return domain
	case !isRegistrable(domain):
		return ""
	}
	return domain
}

func isRegistrable(domain string) bool {
	_, err := publicsuffix.EffectiveTLDPlusOne(domain)
	return err == nil
}
