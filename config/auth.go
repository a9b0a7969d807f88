package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the login provider.
type AuthMode string

const (
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock signs everyone in as DevAuthConfig's identity. Only
	// accepted together with DEV=true.
	AuthModeMock AuthMode = "mock"
)

func (a *AuthMode) UnmarshalText(text []byte) error {
	switch m := AuthMode(strings.ToLower(strings.TrimSpace(string(text)))); m {
	case AuthModeOAuth, AuthModeMock:
		*a = m
		return nil
	}
	return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", text)
}

// OAuthConfig is the OIDC client registration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"runconsole"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"runconsole"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups offline_access"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// ClaimPaths holds JMESPath expressions evaluated against the merged ID token
// and userinfo claims. Empty expressions fall back to the standard OIDC claims.
type ClaimPaths struct {
	UserID    string `env:"USER_ID"    envDefault:"preferred_username || sub"`
	Email     string `env:"EMAIL"      envDefault:"email"`
	FirstName string `env:"FIRST_NAME" envDefault:"given_name"`
	LastName  string `env:"LAST_NAME"  envDefault:"family_name"`
	Groups    string `env:"GROUPS"     envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
	// Token is handed to the ecosystem API on behalf of the dev user.
	Token string `env:"TOKEN"`
}

// AuthConfig is login and role configuration.
type AuthConfig struct {
	Mode    AuthMode      `env:"AUTH_MODE" envDefault:"oauth"`
	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	Claims  ClaimPaths    `envPrefix:"OAUTH_CLAIM_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup and UserGroup are the IdP groups granting the admin and
	// user roles. Members of neither are guests.
	AdminGroup string `env:"ADMIN_GROUP,required"`
	UserGroup  string `env:"USER_GROUP,required"`

	// SessionTTL caps a console session even when the IdP token lives longer.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
}

const defaultSessionTTL = 8 * time.Hour

// Sanitize restores the default session TTL and trims claim expressions.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = defaultSessionTTL
	}
	for _, expr := range []*string{
		&a.Claims.UserID,
		&a.Claims.Email,
		&a.Claims.FirstName,
		&a.Claims.LastName,
		&a.Claims.Groups,
	} {
		*expr = strings.TrimSpace(*expr)
	}
}
