package model

import "strings"

// Role is a privilege tag attached to a user. The set of valid roles is
// closed: USER for regular members and ADMIN for moderators. A user carries
// one or more roles; the database stores them as a comma-separated column.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRoles splits a comma-separated roles column into a slice, dropping
// empty and unknown entries. An empty input yields {USER} so that a row with
// a blank column still grants baseline access.
func ParseRoles(s string) []string {
	out := make([]string, 0, 2)
	for _, p := range strings.Split(s, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && ValidRole(p) && !containsRole(out, p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, string(RoleUser))
	}
	return out
}

// JoinRoles renders a role slice back into the column form. Unknown tags are
// dropped and duplicates collapsed; the result is never empty.
func JoinRoles(roles []string) string {
	return strings.Join(ParseRoles(strings.Join(roles, ",")), ",")
}

// HasRole reports whether roles contains the given role.
func HasRole(roles []string, r Role) bool {
	return containsRole(roles, string(r))
}

func containsRole(roles []string, r string) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
