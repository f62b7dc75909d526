package auth

import "slices"

// Role is one of the closed set of roles a user can hold.
// There is no hierarchy between roles, every operation lists the roles it accepts.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles returns all known roles.
func Roles() []Role {
	return []Role{RoleViewer, RoleEditor, RoleAdmin}
}

// ParseRole returns the role named by s and whether it is a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}

func (r Role) String() string {
	return string(r)
}
