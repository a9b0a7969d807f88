package oidc

import (
	"fmt"
	"maps"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// ClaimPaths holds JMESPath expressions that select identity attributes from
// the merged ID token and userinfo claims.
type ClaimPaths struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Groups    string
}

// DefaultClaimPaths reads the standard OIDC claims.
var DefaultClaimPaths = ClaimPaths{
	UserID:    "preferred_username || sub",
	Email:     "email",
	FirstName: "given_name",
	LastName:  "family_name",
	Groups:    "groups",
}

type idFields struct {
	userID     string
	email      string
	givenName  string
	familyName string
	groups     []string
}

type claimMapper struct {
	userID, email, firstName, lastName, groups jmespath.JMESPath
}

func newClaimMapper(paths ClaimPaths) (*claimMapper, error) {
	compile := func(name, expr, fallback string) (jmespath.JMESPath, error) {
		if strings.TrimSpace(expr) == "" {
			expr = fallback
		}
		jp, err := jmespath.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return jp, nil
	}

	m := &claimMapper{}
	var err error
	if m.userID, err = compile("user id", paths.UserID, DefaultClaimPaths.UserID); err != nil {
		return nil, err
	}
	if m.email, err = compile("email", paths.Email, DefaultClaimPaths.Email); err != nil {
		return nil, err
	}
	if m.firstName, err = compile("first name", paths.FirstName, DefaultClaimPaths.FirstName); err != nil {
		return nil, err
	}
	if m.lastName, err = compile("last name", paths.LastName, DefaultClaimPaths.LastName); err != nil {
		return nil, err
	}
	if m.groups, err = compile("groups", paths.Groups, DefaultClaimPaths.Groups); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *claimMapper) fields(claims map[string]any) idFields {
	return idFields{
		userID:     searchString(m.userID, claims),
		email:      searchString(m.email, claims),
		givenName:  searchString(m.firstName, claims),
		familyName: searchString(m.lastName, claims),
		groups:     searchStrings(m.groups, claims),
	}
}

func searchString(jp jmespath.JMESPath, claims map[string]any) string {
	v, err := jp.Search(claims)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// searchStrings accepts a list of strings or a single comma-separated string.
func searchStrings(jp jmespath.JMESPath, claims map[string]any) []string {
	v, err := jp.Search(claims)
	if err != nil {
		return nil
	}
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// mergeClaims overlays userinfo claims onto ID token claims without replacing
// values the ID token already carried.
func mergeClaims(idToken, userInfo map[string]any) map[string]any {
	out := maps.Clone(userInfo)
	if out == nil {
		out = map[string]any{}
	}
	maps.Copy(out, idToken)
	return out
}
