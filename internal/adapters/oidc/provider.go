// Package oidc signs console users in against an OpenID Connect provider.
// Identity attributes come from the verified ID token, topped up from the
// userinfo endpoint, through configurable JMESPath claim paths.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/ports"
)

const (
	wellKnownSuffix = "/.well-known/openid-configuration"
	// stateLength and nonceLength are in characters of URL-safe base64.
	stateLength = 32
	nonceLength = 32
	// fallbackSessionTTL applies when the token response has no expiry.
	fallbackSessionTTL = time.Hour
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	HTTPClient   *http.Client // Optional: defaults to a client with a 30s timeout
	Claims       ClaimPaths   // Optional: defaults to the standard OIDC claims
}

func (c ProviderConfig) validate() error {
	required := []struct{ value, msg string }{
		{c.ClientID, "client ID is required"},
		{c.ClientSecret, "client secret is required"},
		{c.RedirectURL, "redirect URL is required"},
		{c.DiscoveryURL, "discovery URL is required"},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.New(r.msg)
		}
	}
	return nil
}

// issuer derives the issuer URL go-oidc expects from a discovery URL.
func (c ProviderConfig) issuer() string {
	u := strings.TrimSuffix(c.DiscoveryURL, "/")
	return strings.TrimSuffix(u, wellKnownSuffix)
}

// DiscoveryDocument is the subset of the discovery document the console reads.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// Provider is the ports.AuthProvider for OIDC identity providers.
type Provider struct {
	config     *oauth2.Config
	op         *gooidc.Provider
	verifier   *gooidc.IDTokenVerifier
	claims     *claimMapper
	httpClient *http.Client
	logoutURL  string
	now        func() time.Time
}

// NewProvider fetches the discovery document once and builds the OAuth2
// client from the advertised endpoints.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	claims, err := newClaimMapper(cfg.Claims)
	if err != nil {
		return nil, fmt.Errorf("claim paths: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := gooidc.ClientContext(context.Background(), httpClient)
	op, err := gooidc.NewProvider(ctx, cfg.issuer())
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		op:         op,
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		claims:     claims,
		httpClient: httpClient,
		logoutURL:  cfg.LogoutURL,
		now:        time.Now,
	}, nil
}

// Begin builds the authorization URL. The redirect_uri is always the
// configured callback; in.RedirectURL is only checked here and carried by
// the caller across the round trip.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomToken(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(nonceLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.idTokenClaims(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}
	fields := p.claims.fields(claims)
	if fields.userID == "" || fields.email == "" {
		info, infoErr := p.userInfoClaims(ctx, token)
		if infoErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", infoErr)
		}
		fields = p.claims.fields(mergeClaims(claims, info))
	}
	if fields.userID == "" {
		return domainauth.Identity{}, errors.New("identity has no user id claim")
	}

	return p.identity(fields, token), nil
}

func (p *Provider) identity(f idFields, token *oauth2.Token) domainauth.Identity {
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = p.now().Add(fallbackSessionTTL)
	}
	return domainauth.Identity{
		UserID:      f.userID,
		FirstName:   f.givenName,
		LastName:    f.familyName,
		Email:       f.email,
		Groups:      f.groups,
		ExpiresAt:   expiresAt,
		AccessToken: token.AccessToken,
	}
}

// LogoutURL returns the IdP end-session URL, or "" when none is configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

// idTokenClaims returns the verified id_token claims. Without the openid
// scope there is no id_token and the result is an empty map.
func (p *Provider) idTokenClaims(ctx context.Context, tok *oauth2.Token, nonce string) (map[string]any, error) {
	claims := map[string]any{}
	if !slices.Contains(p.config.Scopes, gooidc.ScopeOpenID) {
		return claims, nil
	}
	raw, err := rawIDToken(tok)
	if err != nil {
		return nil, err
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return nil, errors.New("invalid nonce")
	}
	if err = idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", err)
	}
	return claims, nil
}

func (p *Provider) userInfoClaims(ctx context.Context, tok *oauth2.Token) (map[string]any, error) {
	ui, err := p.op.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	claims := map[string]any{}
	if err = ui.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return claims, nil
}

// randomToken returns n URL-safe characters from crypto/rand.
func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}

func rawIDToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, _ := tok.Extra("id_token").(string)
	if s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
