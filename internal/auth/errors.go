package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

var (
	// ErrTokenVerificationFailed means the identity provider token was rejected.
	ErrTokenVerificationFailed = errors.New("identity token verification failed")
	// ErrInvalidRoleForNewUser means a first login did not name a known role.
	ErrInvalidRoleForNewUser = errors.New("invalid role for new user")
	// ErrAuthenticationRequired means the request carries no valid session.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInvalidCredentials means the session snapshot no longer matches the directory.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInsufficientRole means the user is authenticated but lacks the required role.
	ErrInsufficientRole = errors.New("insufficient role")
)

// ToDomainError maps resolver failures onto HTTP-facing errors.
func ToDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAuthenticationRequired):
		return apperrors.NewUnauthorized("AUTHENTICATION_REQUIRED", "Authentication is required to access this resource")
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.NewUnauthorized("INVALID_CREDENTIALS", "Credentials user is invalid")
	case errors.Is(err, ErrInsufficientRole):
		return apperrors.NewForbidden("You do not have permission to access this resource")
	case errors.Is(err, ErrTokenVerificationFailed), errors.Is(err, ErrInvalidRoleForNewUser):
		return InvalidLogin()
	default:
		return apperrors.MapError(err)
	}
}

// InvalidLogin is the single error returned to clients for any failed login.
func InvalidLogin() error {
	return apperrors.NewDomainError("INVALID_LOGIN", "Invalid login credentials", http.StatusBadRequest, nil)
}
