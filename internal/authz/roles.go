package authz

// Role names seeded at startup. Role-based checks are by name: the token
// carries the role-name list, not numeric ids.
const (
	RoleAdmin      = "admin"
	RoleResearcher = "researcher"
	RoleViewer     = "viewer"
)

func DefaultRoles() []string {
	return []string{RoleAdmin, RoleResearcher, RoleViewer}
}

func HasAny(roles []string, allowed ...string) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
