package httpx

import (
	"context"

	domainauth "github.com/target/runconsole/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session and the
// user's upstream token. A nil session returns ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, session)
	if session.UpstreamToken != "" {
		ctx = domainauth.ContextWithUpstreamToken(ctx, session.UpstreamToken)
	}
	return ctx
}

// GetSessionFromContext returns the session installed by RequireAuth.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return session, ok && session != nil
}
