package ecosystem

import (
	"context"
	"net/http"
	"net/url"

	"github.com/target/runconsole/internal/domain/model"
)

type tokensResponse struct {
	Tokens []model.Token `json:"tokens"`
}

// ListTokens lists personal access tokens, filtered to loginID when set.
func (c *Client) ListTokens(ctx context.Context, loginID string) ([]model.Token, error) {
	var q url.Values
	if loginID != "" {
		q = url.Values{"loginId": {loginID}}
	}
	var resp tokensResponse
	if err := c.doJSON(ctx, call{op: "list_tokens", method: http.MethodGet, path: "/auth/tokens", query: q}, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens == nil {
		return []model.Token{}, nil
	}
	return resp.Tokens, nil
}

// CreateToken mints a token for the authenticated caller.
func (c *Client) CreateToken(ctx context.Context, req model.CreateTokenRequest) (model.CreatedToken, error) {
	var out model.CreatedToken
	err := c.doJSON(ctx, call{op: "create_token", method: http.MethodPost, path: "/auth/tokens", body: req}, &out)
	return out, err
}

// RevokeToken deletes a token.
func (c *Client) RevokeToken(ctx context.Context, tokenID string) error {
	_, err := c.do(ctx, call{op: "revoke_token", method: http.MethodDelete, path: "/auth/tokens/" + url.PathEscape(tokenID)})
	return err
}
