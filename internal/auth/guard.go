package auth

import (
	"errors"
	"slices"
)

var (
	// ErrUnauthenticated is returned when an operation needs a principal and none is present.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrForbidden is returned when the principal's role is not allowed to run an operation.
	ErrForbidden = errors.New("insufficient permissions")
)

// Authorize checks the principal against the allowed roles.
// An empty allowed set accepts any authenticated principal.
func Authorize(principal *Principal, allowed []Role) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if len(allowed) > 0 && !slices.Contains(allowed, principal.Role) {
		return ErrForbidden
	}
	return nil
}

// Operation names a single action exposed by the API.
type Operation string

const (
	OpLogin          Operation = "auth.login"
	OpLogout         Operation = "auth.logout"
	OpStatus         Operation = "auth.status"
	OpChangePassword Operation = "auth.change-password"

	OpListLinks  Operation = "links.list"
	OpCreateLink Operation = "links.create"
	OpUpdateLink Operation = "links.update"
	OpDeleteLink Operation = "links.delete"

	OpListUsers  Operation = "users.list"
	OpCreateUser Operation = "users.create"
	OpUpdateUser Operation = "users.update"
	OpDeleteUser Operation = "users.delete"
)

// Policy describes who may run an operation.
type Policy struct {
	// Public operations run without a principal.
	Public bool
	// Roles lists the accepted roles. Empty means any authenticated principal.
	Roles []Role
}

// Policies is the single source of truth for role requirements.
var Policies = map[Operation]Policy{
	OpLogin:          {Public: true},
	OpLogout:         {Public: true},
	OpStatus:         {Public: true},
	OpChangePassword: {},

	OpListLinks:  {Public: true},
	OpCreateLink: {Roles: []Role{RoleEditor, RoleAdmin}},
	OpUpdateLink: {Roles: []Role{RoleEditor, RoleAdmin}},
	OpDeleteLink: {Roles: []Role{RoleAdmin}},

	OpListUsers:  {Roles: []Role{RoleAdmin}},
	OpCreateUser: {Roles: []Role{RoleAdmin}},
	OpUpdateUser: {Roles: []Role{RoleAdmin}},
	OpDeleteUser: {Roles: []Role{RoleAdmin}},
}

// Check evaluates the policy of op for the principal.
// Unknown operations are denied.
func Check(op Operation, principal *Principal) error {
	policy, ok := Policies[op]
	if !ok {
		return ErrForbidden
	}
	if policy.Public {
		return nil
	}
	return Authorize(principal, policy.Roles)
}
