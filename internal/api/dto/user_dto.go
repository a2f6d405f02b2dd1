package dto

import (
	"github.com/spec-kit/bookstore-service/internal/domain"
)

// LoginRequest payload for POST /login. Role is only read on first login.
type LoginRequest struct {
	GoogleToken string  `json:"google_token"`
	Role        *string `json:"role"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RoleResponse is a role in its stored and display forms.
type RoleResponse struct {
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated"`
}

// UserGetResponse is the public view of a user.
type UserGetResponse struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Surname string       `json:"surname"`
	Email   string       `json:"email"`
	Picture string       `json:"picture"`
	Role    RoleResponse `json:"role"`
}

// UpdateRoleRequest payload for PUT /users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// NewUserGetResponse maps a user using the configured role names.
func NewUserGetResponse(user *domain.User, roles domain.RoleNames) UserGetResponse {
	return UserGetResponse{
		ID:      user.ID,
		Name:    user.Name,
		Surname: user.Surname,
		Email:   user.Email,
		Picture: user.Picture,
		Role: RoleResponse{
			Name:           roles.Name(user.Role),
			NameTranslated: user.Role.DisplayName(),
		},
	}
}
