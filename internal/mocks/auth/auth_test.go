package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/ports"
)

func TestMockAuthProvider_BeginIncrements(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()
	in := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}

	url, state, nonce, err := provider.Begin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", url)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state, nonce, err = provider.Begin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state)
	assert.Equal(t, "nonce-2", nonce)
}

func TestMockAuthProvider_ExchangeDefaults(t *testing.T) {
	identity, err := NewMockAuthProvider().Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, "mock-upstream-token", identity.AccessToken)
	assert.True(t, identity.ExpiresAt.After(time.Now()))

	identity, err = (&MockAuthProvider{}).Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
}

func TestMockAuthProvider_CustomFuncs(t *testing.T) {
	boom := errors.New("idp down")
	provider := &MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, boom
		},
	}
	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{})
	assert.ErrorIs(t, err, boom)
}

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"users", "admins"}))
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{"other", "users"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map([]string{"other"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map(nil))
	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{"admins"}))
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s0"}))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"s0", "s1"}, store.IDs())

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)

	require.Error(t, store.Save(ctx, domainauth.Session{}))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}
