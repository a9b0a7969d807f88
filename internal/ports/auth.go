// Package ports declares the boundaries between the console's services and
// the adapters that talk to the identity provider, the session backend and
// the test ecosystem.
package ports

import (
	"context"

	domainauth "github.com/target/runconsole/internal/domain/auth"
)

// BeginInput is the console path the user returns to after signing in.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput is what the callback handler recovered from the IdP
// redirect and the short-lived login cookies.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider drives the sign-in round trip with an identity provider.
type AuthProvider interface {
	// Begin returns the URL to send the browser to, along with the state
	// and nonce the callback must echo back.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	// Exchange trades the callback code for the signed-in identity and the
	// upstream token used on ecosystem calls.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore keeps console sessions keyed by their opaque id.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper turns IdP group membership into a console role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
