package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned when a string does not name a configured role.
var ErrUnknownRole = errors.New("unknown role")

// Role is the authorization role of a user. The set is closed.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleUser
)

// Roles lists every role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser}
}

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// DisplayName returns the human label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return ""
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RoleNames holds the string representation of each role. The values come
// from configuration and are fixed for the lifetime of the process.
type RoleNames struct {
	Admin string
	User  string
}

// DefaultRoleNames returns the stock role strings.
func DefaultRoleNames() RoleNames {
	return RoleNames{Admin: "admin", User: "user"}
}

// Name returns the configured string for r.
func (n RoleNames) Name(r Role) string {
	switch r {
	case RoleAdmin:
		return n.Admin
	case RoleUser:
		return n.User
	default:
		return ""
	}
}

// Parse maps a configured role string back to its Role.
func (n RoleNames) Parse(value string) (Role, error) {
	if value == "" {
		return 0, ErrUnknownRole
	}
	for _, r := range Roles() {
		if n.Equals(r, value) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, value)
}

// Equals reports whether value is the configured string of r.
func (n RoleNames) Equals(r Role, value string) bool {
	return r.Valid() && n.Name(r) == value
}

// Validate checks that every role has a distinct non-empty string.
func (n RoleNames) Validate() error {
	if n.Admin == "" || n.User == "" {
		return errors.New("role names must not be empty")
	}
	if n.Admin == n.User {
		return fmt.Errorf("admin and user roles share the name %q", n.Admin)
	}
	return nil
}
