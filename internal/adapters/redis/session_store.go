// Package redis keeps console sessions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/internal/data/cryptoutil"
	domainauth "github.com/target/runconsole/internal/domain/auth"
)

const sessionKeySegment = "session:"

// ErrNotFound is returned for unknown, expired or empty session ids.
var ErrNotFound = errors.New("session not found")

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	// KeyPrefix namespaces keys as "<KeyPrefix>session:<id>".
	KeyPrefix string
	// Encryptor seals the upstream token, bound to the session id. Nil
	// stores it unsealed.
	Encryptor cryptoutil.Encryptor
	Now       func() time.Time // Optional: clock override for tests
}

// SessionStore implements ports.SessionStore. Each session is one JSON value
// whose Redis TTL ends at the session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	enc    cryptoutil.Encryptor
	now    func() time.Time
}

func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	s := &SessionStore{
		client: client,
		prefix: opts.KeyPrefix + sessionKeySegment,
		enc:    opts.Encryptor,
		now:    opts.Now,
	}
	if s.enc == nil {
		s.enc = cryptoutil.NoopEncryptor{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// sessionRecord is the stored form of a session. SealedToken is the
// upstream token as produced by the Encryptor.
type sessionRecord struct {
	UserID      string          `json:"user_id"`
	FirstName   string          `json:"first_name,omitempty"`
	LastName    string          `json:"last_name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Role        domainauth.Role `json:"role"`
	ExpiresAt   time.Time       `json:"expires_at"`
	SealedToken string          `json:"upstream_token,omitempty"`
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	rec := sessionRecord{
		UserID:    sess.UserID,
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Email:     sess.Email,
		Role:      sess.Role,
		ExpiresAt: sess.ExpiresAt,
	}
	if sess.UpstreamToken != "" {
		sealed, err := s.enc.Encrypt([]byte(sess.UpstreamToken), []byte(sess.ID))
		if err != nil {
			return fmt.Errorf("encrypt upstream token: %w", err)
		}
		rec.SealedToken = sealed
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err = s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get returns ErrNotFound for a missing session and deletes one found past
// its expiry, which Redis may not have evicted yet.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return domainauth.Session{}, ErrNotFound
	case err != nil:
		return domainauth.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var rec sessionRecord
	if err = json.Unmarshal(data, &rec); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.now().After(rec.ExpiresAt) {
		if err = s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ErrNotFound
	}

	sess := domainauth.Session{
		ID:        id,
		UserID:    rec.UserID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Role:      rec.Role,
		ExpiresAt: rec.ExpiresAt,
	}
	if rec.SealedToken != "" {
		plain, decErr := s.enc.Decrypt(rec.SealedToken, []byte(id))
		if decErr != nil {
			return domainauth.Session{}, fmt.Errorf("decrypt upstream token: %w", decErr)
		}
		sess.UpstreamToken = string(plain)
	}
	return sess, nil
}

// Delete is idempotent; an empty id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string { return s.prefix + id }
