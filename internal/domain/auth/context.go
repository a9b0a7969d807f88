package auth

import "context"

type tokenKey struct{}

// ContextWithUpstreamToken returns a context carrying the bearer token used for
// ecosystem calls made on behalf of the request's user.
func ContextWithUpstreamToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// UpstreamTokenFromContext returns the bearer token set by ContextWithUpstreamToken.
func UpstreamTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok && tok != ""
}
