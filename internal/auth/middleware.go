package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	requestAuthKey = "auth_request"
	userKey        = "auth_user"
)

// RequestAuth is what the session stage learned about the caller. It is
// produced once per request and handed to the Resolver.
type RequestAuth struct {
	Authenticated bool
	Snapshot      SessionUser
}

// SessionStage decodes bearer session tokens. It never rejects a request;
// protected routes decide through the Resolver.
type SessionStage struct {
	sessions *SessionIssuer
	logger   *zap.Logger
}

// NewSessionStage constructs the middleware.
func NewSessionStage(sessions *SessionIssuer, logger *zap.Logger) *SessionStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStage{sessions: sessions, logger: logger}
}

// Handle stores a RequestAuth for the current request.
func (m *SessionStage) Handle(c *fiber.Ctx) error {
	c.Locals(requestAuthKey, m.authenticate(c.Get(fiber.HeaderAuthorization)))
	return c.Next()
}

func (m *SessionStage) authenticate(header string) RequestAuth {
	if header == "" {
		return RequestAuth{}
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return RequestAuth{}
	}

	claims, err := m.sessions.Decode(strings.TrimSpace(parts[1]))
	if err != nil {
		m.logger.Debug("session token rejected", zap.Error(err))
		return RequestAuth{}
	}
	return RequestAuth{Authenticated: true, Snapshot: claims.User}
}

// RequestAuthFromContext returns the RequestAuth stored by the session stage,
// or an unauthenticated value if the stage did not run.
func RequestAuthFromContext(c *fiber.Ctx) RequestAuth {
	ra, _ := c.Locals(requestAuthKey).(RequestAuth)
	return ra
}
