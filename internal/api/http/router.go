package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/http/handlers"
	"github.com/spec-kit/bookstore-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	Orders   *handlers.OrdersHandler
	Session  *auth.SessionStage
	Resolver *auth.Resolver
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Session.Handle)

	app.Post("/login", cfg.Auth.Login)

	authenticated := cfg.Resolver.Authenticated()
	admin := cfg.Resolver.Admin()

	users := app.Group("/users")
	users.Get("/me", authenticated, cfg.Users.Me)
	users.Get("", admin, cfg.Users.List)
	users.Put("/:id/role", admin, cfg.Users.UpdateRole)

	orders := app.Group("/orders")
	orders.Get("/me", authenticated, cfg.Orders.Mine)
	orders.Get("", admin, cfg.Orders.List)
	orders.Put("/:id/status", admin, cfg.Orders.UpdateStatus)
}
