package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/config"
)

// NewApp builds the fiber app. With a proxy header configured, c.IP() reads
// the client address from it; a non-empty trusted list restricts which peers
// may set that header.
func NewApp(cfg config.AppConfig) *fiber.App {
	fiberCfg := fiber.Config{AppName: cfg.Name}
	if cfg.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.ProxyHeader
		if len(cfg.TrustedProxies) > 0 {
			fiberCfg.EnableTrustedProxyCheck = true
			fiberCfg.TrustedProxies = cfg.TrustedProxies
		}
	}
	return fiber.New(fiberCfg)
}
