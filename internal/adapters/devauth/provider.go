// Package devauth signs everyone in as one configured identity. It backs
// AUTH_MODE=mock for local development and handler tests.
package devauth

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/ports"
)

const (
	callbackPath           = "/auth/callback"
	devCode                = "dev"
	defaultSessionDuration = 8 * time.Hour
)

// Config is the identity handed out by the provider. UserID and Email are
// required.
type Config struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Groups    []string
	// Token is sent to the ecosystem as the dev user's bearer token.
	Token           string
	SessionDuration time.Duration // Optional: defaults to 8h
}

// Provider skips the IdP: Begin points the browser straight at the console's
// own callback, and Exchange returns the configured identity whatever the code.
type Provider struct {
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.UserID == "":
		return nil, errors.New("dev auth: UserID is required")
	case cfg.Email == "":
		return nil, errors.New("dev auth: Email is required")
	}
	ttl := cfg.SessionDuration
	if ttl <= 0 {
		ttl = defaultSessionDuration
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			FirstName:   cfg.FirstName,
			LastName:    cfg.LastName,
			Email:       cfg.Email,
			Groups:      slices.Clone(cfg.Groups),
			AccessToken: cfg.Token,
		},
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (p *Provider) Begin(context.Context, ports.BeginInput) (string, string, string, error) {
	state, nonce := uuid.NewString(), uuid.NewString()
	q := url.Values{"code": {devCode}, "state": {state}}
	return callbackPath + "?" + q.Encode(), state, nonce, nil
}

// Exchange leaves state and nonce checks to the callback handler.
func (p *Provider) Exchange(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
	id := p.identity
	id.Groups = slices.Clone(p.identity.Groups)
	id.ExpiresAt = p.now().Add(p.ttl)
	return id, nil
}
