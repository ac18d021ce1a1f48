// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package sec

// # Member Roles

// Role represents the authorization level of the logged-in member.
type Role string

const (
	// Manages products, members and balances
	RoleAdmin Role = "admin"

	// Default role for club members
	RoleMember Role = "member"

	// No session on this terminal
	RoleAnonymous Role = "anonymous"
)

// RoleFor maps the backend's is_admin flag to a [Role].
func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
