package ecosystem

import (
	"context"
	"net/http"
	"net/url"

	"github.com/target/runconsole/internal/domain/model"
)

// ListUsers lists users, filtered to loginID when set.
func (c *Client) ListUsers(ctx context.Context, loginID string) ([]model.User, error) {
	var q url.Values
	if loginID != "" {
		q = url.Values{"loginId": {loginID}}
	}
	users := []model.User{}
	if err := c.doJSON(ctx, call{op: "list_users", method: http.MethodGet, path: "/users", query: q}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := c.doJSON(ctx, call{op: "get_user", method: http.MethodGet, path: "/users/" + url.PathEscape(id)}, &u)
	return u, err
}

type userUpdate struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns roleID to the user and returns the updated record.
func (c *Client) UpdateUserRole(ctx context.Context, id, roleID string) (model.User, error) {
	var u model.User
	err := c.doJSON(ctx, call{
		op:     "update_user",
		method: http.MethodPut,
		path:   "/users/" + url.PathEscape(id),
		body:   userUpdate{Role: roleID},
	}, &u)
	return u, err
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{op: "delete_user", method: http.MethodDelete, path: "/users/" + url.PathEscape(id)})
	return err
}

// ListRoles lists RBAC roles.
func (c *Client) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	if err := c.doJSON(ctx, call{op: "list_roles", method: http.MethodGet, path: "/rbac/roles"}, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
