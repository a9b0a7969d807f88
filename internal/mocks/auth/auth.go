// Package auth provides in-memory doubles for the auth ports, for tests that
// want behavior rather than gomock expectations.
package auth

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/ports"
)

var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = StaticRoleMapper{}
)

const defaultMockAuthURL = "https://mock-idp/auth"

func defaultMockIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:      "mock-user-1",
		FirstName:   "Mock",
		LastName:    "User",
		Email:       "mock.user@example.com",
		Groups:      []string{"users"},
		AccessToken: "mock-upstream-token",
	}
}

// MockAuthProvider hands out numbered state/nonce pairs ("state-1",
// "nonce-1", ...) and signs in DefaultUser. Set BeginFunc or ExchangeFunc
// to override either step.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	begins atomic.Int64
}

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{AuthURL: defaultMockAuthURL, DefaultUser: defaultMockIdentity()}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	n := strconv.FormatInt(m.begins.Add(1), 10)
	authURL := m.AuthURL
	if authURL == "" {
		authURL = defaultMockAuthURL
	}
	return authURL, "state-" + n, "nonce-" + n, nil
}

// Exchange returns DefaultUser (or the stock mock user when unset) valid
// for one hour.
func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	id := m.DefaultUser
	if id.UserID == "" {
		id = defaultMockIdentity()
	}
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// ErrNotFound is what MemorySessionStore.Get returns for unknown ids.
var ErrNotFound = errors.New("not found")

// MemorySessionStore is a mutex-guarded map of sessions.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]domainauth.Session{}}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the stored session ids in sorted order.
func (m *MemorySessionStore) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.sessions))
}

// StaticRoleMapper grants admin for AdminGroup, user for UserGroup, and
// guest otherwise. Empty group names never match.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case m.AdminGroup != "" && slices.Contains(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	case m.UserGroup != "" && slices.Contains(groups, m.UserGroup):
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}
