package ports

import (
	"context"

	"github.com/target/runconsole/internal/domain/model"
)

// RunSearcher fetches one page of runs from the ecosystem's result archive.
type RunSearcher interface {
	SearchRuns(ctx context.Context, req model.RunPageRequest) (model.RunPage, error)
}

// RunReader reads a single run and its log.
type RunReader interface {
	GetRun(ctx context.Context, runID string) (model.Run, error)
	GetRunLog(ctx context.Context, runID string) (string, error)
}

// TokenAPI manages personal access tokens.
type TokenAPI interface {
	// ListTokens lists tokens; an empty loginID lists every user's tokens.
	ListTokens(ctx context.Context, loginID string) ([]model.Token, error)
	CreateToken(ctx context.Context, req model.CreateTokenRequest) (model.CreatedToken, error)
	RevokeToken(ctx context.Context, tokenID string) error
}

// UserAPI administers ecosystem users and their roles.
type UserAPI interface {
	// ListUsers lists users; a non-empty loginID filters to that login.
	ListUsers(ctx context.Context, loginID string) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	UpdateUserRole(ctx context.Context, id, roleID string) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListRoles(ctx context.Context) ([]model.Role, error)
}

// EcosystemClient is the full surface of the ecosystem REST client.
type EcosystemClient interface {
	RunSearcher
	RunReader
	TokenAPI
	UserAPI
}
