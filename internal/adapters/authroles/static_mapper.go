// Package authroles maps IdP groups to console roles.
package authroles

import (
	"strings"

	domainauth "github.com/target/runconsole/internal/domain/auth"
)

// StaticRoleMapper maps groups by case-insensitive membership. Admin wins over user;
// everyone else is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		g = strings.TrimSpace(g)
		switch {
		case m.AdminGroup != "" && strings.EqualFold(g, m.AdminGroup):
			return domainauth.RoleAdmin
		case m.UserGroup != "" && strings.EqualFold(g, m.UserGroup):
			role = domainauth.RoleUser
		}
	}
	return role
}
