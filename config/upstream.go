package config

import (
	"strings"
	"time"
)

const (
	defaultUpstreamTimeout = 30 * time.Second
	defaultAPIVersion      = "0.36.0"
)

// UpstreamConfig configures the client for the test-execution ecosystem REST API.
type UpstreamConfig struct {
	// BaseURL is the ecosystem API root, e.g. "https://ecosystem.example.com/api".
	BaseURL string `env:"API_URL" envDefault:"http://localhost:8081/api"`

	// APIVersion is sent on every request in the ClientApiVersion header.
	APIVersion string `env:"API_VERSION" envDefault:"0.36.0"`

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// RetryMax is the number of retries for idempotent requests.
	RetryMax int `env:"RETRY_MAX" envDefault:"3"`

	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration `env:"RETRY_WAIT_MIN" envDefault:"200ms"`
	RetryWaitMax time.Duration `env:"RETRY_WAIT_MAX" envDefault:"5s"`

	// ServiceToken authenticates requests made without a signed-in user,
	// such as the admin CLI.
	ServiceToken string `env:"SERVICE_TOKEN"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
	if u.APIVersion = strings.TrimSpace(u.APIVersion); u.APIVersion == "" {
		u.APIVersion = defaultAPIVersion
	}
	if u.Timeout <= 0 {
		u.Timeout = defaultUpstreamTimeout
	}
	if u.RetryMax < 0 {
		u.RetryMax = 0
	}
	if u.RetryWaitMin <= 0 {
		u.RetryWaitMin = 200 * time.Millisecond
	}
	if u.RetryWaitMax < u.RetryWaitMin {
		u.RetryWaitMax = u.RetryWaitMin
	}
	u.ServiceToken = strings.TrimSpace(u.ServiceToken)
}
