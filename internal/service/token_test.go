package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/mocks"
)

func newTokenService(t *testing.T) (*mocks.MockTokenAPI, *TokenService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockTokenAPI(ctrl)
	return api, MustNewTokenService(TokenServiceOptions{Tokens: api})
}

var (
	alice = domainauth.Session{UserID: "alice", Role: domainauth.RoleUser}
	admin = domainauth.Session{UserID: "root", Role: domainauth.RoleAdmin}
)

func TestTokenService_List(t *testing.T) {
	api, svc := newTokenService(t)
	ctx := context.Background()

	want := []model.Token{{ID: "t1", Description: "ci", Owner: model.TokenOwner{LoginID: "alice"}}}
	api.EXPECT().ListTokens(ctx, "alice").Return(want, nil)

	got, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.List(ctx, domainauth.Session{})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestTokenService_Create(t *testing.T) {
	api, svc := newTokenService(t)
	ctx := context.Background()

	t.Run("validates description", func(t *testing.T) {
		_, err := svc.Create(ctx, alice, model.CreateTokenRequest{Description: "   "})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "description", apperrors.GetField(err))

		_, err = svc.Create(ctx, alice, model.CreateTokenRequest{Description: strings.Repeat("x", 256)})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("trims and forwards", func(t *testing.T) {
		api.EXPECT().
			CreateToken(ctx, model.CreateTokenRequest{Description: "laptop"}).
			Return(model.CreatedToken{Token: model.Token{ID: "t9"}, Secret: "s3cr3t"}, nil)

		got, err := svc.Create(ctx, alice, model.CreateTokenRequest{Description: " laptop "})
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", got.Secret)
	})

	t.Run("upstream failure is wrapped", func(t *testing.T) {
		api.EXPECT().CreateToken(ctx, gomock.Any()).Return(model.CreatedToken{}, apperrors.Unavailable("down"))

		_, err := svc.Create(ctx, alice, model.CreateTokenRequest{Description: "x"})
		require.Error(t, err)
		assert.True(t, apperrors.IsUnavailable(err))
	})
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("own token", func(t *testing.T) {
		api, svc := newTokenService(t)
		api.EXPECT().ListTokens(ctx, "alice").Return([]model.Token{{ID: "t1"}}, nil)
		api.EXPECT().RevokeToken(ctx, "t1").Return(nil)

		require.NoError(t, svc.Revoke(ctx, alice, "t1"))
	})

	t.Run("someone else's token is forbidden", func(t *testing.T) {
		api, svc := newTokenService(t)
		api.EXPECT().ListTokens(ctx, "alice").Return([]model.Token{{ID: "t1"}}, nil)

		err := svc.Revoke(ctx, alice, "t2")
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin revokes any token", func(t *testing.T) {
		api, svc := newTokenService(t)
		api.EXPECT().RevokeToken(ctx, "t2").Return(nil)

		require.NoError(t, svc.Revoke(ctx, admin, "t2"))
	})

	t.Run("empty id", func(t *testing.T) {
		_, svc := newTokenService(t)
		assert.True(t, apperrors.IsValidation(svc.Revoke(ctx, alice, "")))
	})

	t.Run("listing failure", func(t *testing.T) {
		api, svc := newTokenService(t)
		api.EXPECT().ListTokens(ctx, "alice").Return(nil, errors.New("boom"))

		err := svc.Revoke(ctx, alice, "t1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list tokens")
	})
}
