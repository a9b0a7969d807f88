//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// RoleRef is the role assigned to an ecosystem user.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role is an ecosystem RBAC role.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Actions     []string `json:"actions,omitempty"`
	Assignable  bool     `json:"assignable"`
}

// ClientActivity records the last login through a given client.
type ClientActivity struct {
	ClientName string     `json:"clientName"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

// User is an ecosystem user account.
type User struct {
	ID      string           `json:"id"`
	LoginID string           `json:"loginId"`
	Role    RoleRef          `json:"role"`
	Clients []ClientActivity `json:"clients,omitempty"`
}

// LastLogin returns the most recent login across all clients.
func (u User) LastLogin() *time.Time {
	var last *time.Time
	for _, c := range u.Clients {
		if c.LastLogin != nil && (last == nil || c.LastLogin.After(*last)) {
			last = c.LastLogin
		}
	}
	return last
}

// UpdateUserRoleRequest represents a role change.
type UpdateUserRoleRequest struct {
	RoleID string `json:"role_id"`
}

// Validate validates and normalizes UpdateUserRoleRequest.
func (r *UpdateUserRoleRequest) Validate() error {
	r.RoleID = strings.TrimSpace(r.RoleID)
	if r.RoleID == "" {
		return errors.New("role_id is required")
	}
	return nil
}

// UserProfile combines a user with their personal access tokens.
type UserProfile struct {
	User   User    `json:"user"`
	Tokens []Token `json:"tokens"`
}
