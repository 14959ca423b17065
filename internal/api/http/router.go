package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/signout", cfg.AuthMiddleware.Handle, cfg.Auth.SignOut)

	// Create has no route gate: the guard itself rejects anonymous callers.
	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", auth.RequireAuthenticated(), cfg.Tickets.List)
	tickets.Get("/:id", auth.RequireAuthenticated(), cfg.Tickets.Get)
	tickets.Patch("/:id/status", auth.RequireSupport(), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/suggest-response", auth.RequireSupport(), cfg.Tickets.SuggestResponse)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	users.Get("/", cfg.Users.List)
	users.Patch("/:id/role", cfg.Users.UpdateRole)
}
