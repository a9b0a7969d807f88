package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/ports"
)

// TokenServiceOptions groups dependencies for TokenService.
type TokenServiceOptions struct {
	Tokens ports.TokenAPI // Required
	Logger *slog.Logger
}

// TokenService manages the signed-in user's personal access tokens.
type TokenService struct {
	tokens ports.TokenAPI
	logger *slog.Logger
}

// NewTokenService constructs a TokenService.
func NewTokenService(opts TokenServiceOptions) (*TokenService, error) {
	if opts.Tokens == nil {
		return nil, errors.New("TokenAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{tokens: opts.Tokens, logger: logger.With("component", "token_service")}, nil
}

// MustNewTokenService constructs a TokenService and panics on error.
func MustNewTokenService(opts TokenServiceOptions) *TokenService {
	s, err := NewTokenService(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns the caller's tokens.
func (s *TokenService) List(ctx context.Context, caller domainauth.Session) ([]model.Token, error) {
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("sign in required")
	}
	return s.tokens.ListTokens(ctx, caller.UserID)
}

// Create mints a new token for the caller. The secret is only available in the returned value.
func (s *TokenService) Create(ctx context.Context, caller domainauth.Session, req model.CreateTokenRequest) (model.CreatedToken, error) {
	if caller.UserID == "" {
		return model.CreatedToken{}, apperrors.Unauthorized("sign in required")
	}
	if err := req.Validate(); err != nil {
		return model.CreatedToken{}, apperrors.ValidationField("description", err.Error())
	}
	created, err := s.tokens.CreateToken(ctx, req)
	if err != nil {
		return model.CreatedToken{}, fmt.Errorf("create token: %w", err)
	}
	s.logger.InfoContext(ctx, "token created", "token_id", created.ID, "login_id", caller.UserID)
	return created, nil
}

// Revoke deletes a token. Users may revoke their own tokens; admins may revoke any.
func (s *TokenService) Revoke(ctx context.Context, caller domainauth.Session, tokenID string) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return apperrors.ValidationField("tokenId", "token id is required")
	}

	if !caller.IsAdmin() {
		owned, err := s.tokens.ListTokens(ctx, caller.UserID)
		if err != nil {
			return fmt.Errorf("list tokens: %w", err)
		}
		if !containsToken(owned, tokenID) {
			return apperrors.Forbidden("token belongs to another user")
		}
	}

	if err := s.tokens.RevokeToken(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.InfoContext(ctx, "token revoked", "token_id", tokenID, "by", caller.UserID)
	return nil
}

func containsToken(tokens []model.Token, id string) bool {
	for _, t := range tokens {
		if t.ID == id {
			return true
		}
	}
	return false
}
