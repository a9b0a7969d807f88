package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	// SessionTTL caps session lifetime; zero keeps the IdP expiry.
	SessionTTL time.Duration
	Logger     *slog.Logger     // Optional: defaults to slog.Default()
	Now        func() time.Time // Optional: clock override for tests
}

// AuthService runs the login round trip: the provider proves who the user
// is, the role mapper decides what they may do, and the session store
// remembers both along with the upstream token.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// ErrSessionExpired is returned by GetSession for sessions past their expiry.
var ErrSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		sessionTTL: opts.SessionTTL,
		logger:     logger.With("component", "auth_service"),
		now:        now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the authorization code for an identity, maps its
// groups to a console role, and persists a session carrying the upstream token.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := domainauth.Session{
		ID:            uuid.NewString(),
		UserID:        identity.UserID,
		FirstName:     identity.FirstName,
		LastName:      identity.LastName,
		Email:         identity.Email,
		Role:          s.roles.Map(identity.Groups),
		ExpiresAt:     s.sessionExpiry(identity.ExpiresAt),
		UpstreamToken: identity.AccessToken,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	s.logger.InfoContext(ctx, "user signed in",
		"user_id", session.UserID,
		"role", session.Role,
		"expires_at", session.ExpiresAt)
	if session.Role == domainauth.RoleGuest {
		s.logger.DebugContext(ctx, "no console group matched", "user_id", session.UserID, "groups", identity.Groups)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// sessionExpiry returns the earlier of the IdP expiry and the configured TTL.
func (s *AuthService) sessionExpiry(idpExpiry time.Time) time.Time {
	if s.sessionTTL <= 0 {
		return idpExpiry
	}
	capped := s.now().Add(s.sessionTTL)
	if idpExpiry.IsZero() || capped.Before(idpExpiry) {
		return capped
	}
	return idpExpiry
}

// GetSession retrieves a session by ID, deleting it if it has expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.DebugContext(ctx, "session ended")
	return nil
}
