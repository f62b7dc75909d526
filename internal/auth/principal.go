package auth

// Principal is the authenticated identity attached to a single request.
// A nil *Principal means the caller is anonymous.
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

// HasRole reports whether the principal is present and holds the given role.
func (p *Principal) HasRole(role Role) bool {
	return p != nil && p.Role == role
}

// IsAdmin is a shorthand for HasRole(RoleAdmin).
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// System returns the principal used by administrative commands run from the shell.
// It acts as an admin but is not backed by a user row.
func System() *Principal {
	return &Principal{Username: "system", Role: RoleAdmin}
}

// ActorID returns the user id of the principal, or nil for anonymous callers
// and the system principal.
func (p *Principal) ActorID() *uint {
	if p == nil || p.UserID == 0 {
		return nil
	}
	id := p.UserID
	return &id
}
