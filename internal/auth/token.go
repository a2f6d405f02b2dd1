package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

// SessionRole is the role as embedded in a session token.
type SessionRole struct {
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated"`
}

// SessionUser is the user snapshot embedded in a session token.
type SessionUser struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Surname string      `json:"surname"`
	Email   string      `json:"email"`
	Picture string      `json:"picture"`
	Role    SessionRole `json:"role"`
}

// ProjectUser builds the snapshot of user that goes into a session token.
func ProjectUser(user domain.User, roles domain.RoleNames) SessionUser {
	return SessionUser{
		ID:      user.ID,
		Name:    user.Name,
		Surname: user.Surname,
		Email:   user.Email,
		Picture: user.Picture,
		Role: SessionRole{
			Name:           roles.Name(user.Role),
			NameTranslated: user.Role.DisplayName(),
		},
	}
}

// SessionClaims is the session token payload. Expires is in epoch seconds.
type SessionClaims struct {
	User    SessionUser `json:"user"`
	Expires int64       `json:"expires"`
}

func (c SessionClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Expires == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.Expires, 0)), nil
}

func (c SessionClaims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c SessionClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c SessionClaims) GetIssuer() (string, error)              { return "", nil }
func (c SessionClaims) GetSubject() (string, error)             { return c.User.ID, nil }
func (c SessionClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// SessionIssuer signs and decodes session tokens with a shared secret.
type SessionIssuer struct {
	method jwt.SigningMethod
	secret []byte
	roles  domain.RoleNames
	now    func() time.Time
}

// NewSessionIssuer builds an issuer for the named HMAC algorithm.
func NewSessionIssuer(secret, algorithm string, roles domain.RoleNames) (*SessionIssuer, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported session algorithm %q", algorithm)
	}
	return &SessionIssuer{method: method, secret: []byte(secret), roles: roles, now: time.Now}, nil
}

// Issue signs a session token for user that expires SessionTTL after now.
func (s *SessionIssuer) Issue(user domain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(SessionTTL).Truncate(time.Second)
	claims := SessionClaims{
		User:    ProjectUser(user, s.roles),
		Expires: expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Decode validates the signature and expiry of a session token.
func (s *SessionIssuer) Decode(tokenStr string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}

// Roles returns the role names the issuer embeds.
func (s *SessionIssuer) Roles() domain.RoleNames {
	return s.roles
}
