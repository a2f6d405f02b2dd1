package domain

import "time"

// User is a person who signed in through the identity provider at least once.
type User struct {
	ID        string
	Name      string
	Surname   string
	Email     string
	Picture   string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
