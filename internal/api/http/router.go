package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Activity       *handlers.ActivityHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role guards at the route level mirror the
// service-layer policy, which remains authoritative.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	elevated := auth.RequireRoles(domain.RoleAdmin, domain.RoleManager)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/all", cfg.Tickets.ListTickets)
	tickets.Get("/", cfg.Tickets.SearchTickets)
	tickets.Put("/:id/status", elevated, cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/assign", elevated, cfg.Tickets.AssignTicket)
	tickets.Delete("/:id", auth.RequireRoles(domain.RoleAdmin), cfg.Tickets.DeleteTicket)

	app.Get("/activity", cfg.AuthMiddleware.Handle, elevated, cfg.Activity.ListActivity)
	app.Get("/reports/overview", cfg.AuthMiddleware.Handle, elevated, cfg.Reports.Overview)
	app.Get("/users", cfg.AuthMiddleware.Handle, elevated, cfg.Users.ListUsers)
}
