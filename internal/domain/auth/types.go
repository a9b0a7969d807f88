// Package auth holds the console's identity, session and role types.
package auth

import "time"

// Role is the console authorization level derived from IdP groups. Roles are
// ordered: guest < user < admin.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) rank() int {
	switch r {
	case RoleGuest:
		return 1
	case RoleUser:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r is min or higher. An unknown role never passes.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

// Identity is who the IdP says signed in, plus the token the console uses
// on the ecosystem API for them.
type Identity struct {
	// UserID doubles as the ecosystem loginId.
	UserID      string
	FirstName   string
	LastName    string
	Email       string
	Groups      []string
	ExpiresAt   time.Time
	AccessToken string
}

// Session is the record behind the session cookie. The store seals
// UpstreamToken before it is written.
type Session struct {
	ID            string
	UserID        string
	FirstName     string
	LastName      string
	Email         string
	Role          Role
	ExpiresAt     time.Time
	UpstreamToken string
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
