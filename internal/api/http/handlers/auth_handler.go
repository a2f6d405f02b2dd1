package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/ratelimit"
	"github.com/spec-kit/bookstore-service/internal/service"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *ratelimit.LoginLimiter
	logger  *zap.Logger
}

// NewAuthHandler constructs handler. limiter may be nil.
func NewAuthHandler(authService *service.AuthService, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, limiter: limiter, logger: logger}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	allowed, err := h.limiter.Allow(c.UserContext(), c.IP())
	if err != nil {
		h.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !allowed {
		return apperrors.NewTooManyRequests("too many login attempts")
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.InvalidLogin()
	}

	result, err := h.auth.Login(c.UserContext(), service.LoginInput{
		IdentityToken: req.GoogleToken,
		Role:          req.Role,
	})
	if err != nil {
		h.logLoginFailure(c.IP(), err)
		return auth.InvalidLogin()
	}

	return c.JSON(dto.LoginResponse{Token: result.Token})
}

// logLoginFailure keeps the internal failure kind in the logs; clients only
// ever see the generic login error.
func (h *AuthHandler) logLoginFailure(ip string, err error) {
	if errors.Is(err, auth.ErrTokenVerificationFailed) || errors.Is(err, auth.ErrInvalidRoleForNewUser) {
		h.logger.Info("login rejected", zap.String("ip", ip), zap.Error(err))
		return
	}
	h.logger.Error("login failed", zap.String("ip", ip), zap.Error(err))
}
