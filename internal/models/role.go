package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleParent, RoleStudent, RoleStaff}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent, RoleStaff:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller a request acts on behalf of.
type Principal struct {
	UserID    string
	Role      Role
	Superuser bool
}

// Unrestricted reports whether the caller bypasses row-level visibility.
func (p *Principal) Unrestricted() bool {
	return p != nil && (p.Superuser || p.Role == RoleAdmin)
}

// Is reports whether the caller holds the given role. Superusers hold every role.
func (p *Principal) Is(role Role) bool {
	if p == nil {
		return false
	}
	return p.Superuser || p.Role == role
}
