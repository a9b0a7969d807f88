package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/runconsole/internal/core"
	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/ports"
)

const (
	rolesCacheKey = "roles"
	rolesCacheTTL = 5 * time.Minute
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users  ports.UserAPI        // Required
	Tokens ports.TokenAPI       // Required
	Cache  core.CacheRepository // Optional: caches the role list
	Logger *slog.Logger         // Optional
}

// UserService administers ecosystem users and their roles.
type UserService struct {
	users  ports.UserAPI
	tokens ports.TokenAPI
	cache  core.CacheRepository
	logger *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserAPI is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("TokenAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:  opts.Users,
		tokens: opts.Tokens,
		cache:  opts.Cache,
		logger: logger.With("component", "user_service"),
	}, nil
}

// MustNewUserService constructs a UserService and panics on error.
func MustNewUserService(opts UserServiceOptions) *UserService {
	s, err := NewUserService(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns users, optionally filtered by login id.
func (s *UserService) List(ctx context.Context, loginID string) ([]model.User, error) {
	return s.users.ListUsers(ctx, strings.TrimSpace(loginID))
}

// Get returns a user and their tokens.
func (s *UserService) Get(ctx context.Context, id string) (model.UserProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.UserProfile{}, apperrors.ValidationField("id", "user id is required")
	}
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return model.UserProfile{}, err
	}
	tokens, err := s.tokens.ListTokens(ctx, user.LoginID)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("list tokens: %w", err)
	}
	return model.UserProfile{User: user, Tokens: nonNilTokens(tokens)}, nil
}

// Profile returns the user record and tokens for a login id, fetching both concurrently.
func (s *UserService) Profile(ctx context.Context, loginID string) (model.UserProfile, error) {
	if loginID == "" {
		return model.UserProfile{}, apperrors.Unauthorized("sign in required")
	}

	var (
		users  []model.User
		tokens []model.Token
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.ListUsers(gctx, loginID)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tokens, err = s.tokens.ListTokens(gctx, loginID)
		if err != nil {
			return fmt.Errorf("list tokens: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.UserProfile{}, err
	}

	for _, u := range users {
		if u.LoginID == loginID {
			return model.UserProfile{User: u, Tokens: nonNilTokens(tokens)}, nil
		}
	}
	return model.UserProfile{}, apperrors.NotFoundf("user %q not found", loginID)
}

// UpdateRoleParams groups parameters for UserService.UpdateRole.
type UpdateRoleParams struct {
	Caller domainauth.Session
	UserID string
	Req    model.UpdateUserRoleRequest
}

// UpdateRole assigns an existing, assignable role to a user other than the caller.
func (s *UserService) UpdateRole(ctx context.Context, params UpdateRoleParams) (model.User, error) {
	if err := params.Req.Validate(); err != nil {
		return model.User{}, apperrors.ValidationField("role_id", err.Error())
	}
	target, err := s.users.GetUser(ctx, strings.TrimSpace(params.UserID))
	if err != nil {
		return model.User{}, err
	}
	if target.LoginID == params.Caller.UserID {
		return model.User{}, apperrors.Forbidden("you cannot change your own role")
	}

	roles, err := s.Roles(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("list roles: %w", err)
	}
	if !roleAssignable(roles, params.Req.RoleID) {
		return model.User{}, apperrors.ValidationField("role_id", "role does not exist or cannot be assigned")
	}

	updated, err := s.users.UpdateUserRole(ctx, target.ID, params.Req.RoleID)
	if err != nil {
		return model.User{}, fmt.Errorf("update user role: %w", err)
	}
	s.logger.InfoContext(ctx, "user role changed",
		"user_id", target.ID,
		"login_id", target.LoginID,
		"role_id", params.Req.RoleID,
		"by", params.Caller.UserID,
	)
	return updated, nil
}

// Delete removes a user account. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller domainauth.Session, id string) error {
	target, err := s.users.GetUser(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if target.LoginID == caller.UserID {
		return apperrors.Forbidden("you cannot delete your own account")
	}
	if err := s.users.DeleteUser(ctx, target.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", target.ID, "login_id", target.LoginID, "by", caller.UserID)
	return nil
}

// Roles returns the ecosystem's RBAC roles, cached briefly.
func (s *UserService) Roles(ctx context.Context) ([]model.Role, error) {
	if roles, ok := s.cachedRoles(ctx); ok {
		return roles, nil
	}
	roles, err := s.users.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	s.storeRoles(ctx, roles)
	return roles, nil
}

func (s *UserService) cachedRoles(ctx context.Context) ([]model.Role, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, rolesCacheKey)
	if err != nil || raw == nil {
		if err != nil {
			s.logger.WarnContext(ctx, "role cache read failed", "error", err)
		}
		return nil, false
	}
	var roles []model.Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, false
	}
	return roles, true
}

func (s *UserService) storeRoles(ctx context.Context, roles []model.Role) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(roles)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, rolesCacheKey, raw, rolesCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "role cache write failed", "error", err)
	}
}

func roleAssignable(roles []model.Role, id string) bool {
	for _, r := range roles {
		if r.ID == id {
			return r.Assignable
		}
	}
	return false
}

func nonNilTokens(tokens []model.Token) []model.Token {
	if tokens == nil {
		return []model.Token{}
	}
	return tokens
}
