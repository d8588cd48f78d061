package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/http/handlers"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Shipments      *handlers.ShipmentsHandler
	Orders         *handlers.OrdersHandler
	Vehicles       *handlers.VehiclesHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Users.Register)
	api.Post("/auth/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/users", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)

	protected.Get("/shipments", cfg.Shipments.List)
	protected.Post("/shipments", cfg.Shipments.Create)
	protected.Get("/shipments/:id", cfg.Shipments.Get)
	protected.Put("/shipments/:id", cfg.Shipments.Update)
	protected.Delete("/shipments/:id", cfg.Shipments.Delete)
	protected.Post("/shipments/:id/complete-delivery", cfg.Shipments.CompleteDelivery)
	protected.Get("/stats", cfg.Shipments.Stats)

	protected.Get("/orders", cfg.Orders.List)
	protected.Post("/orders", cfg.Orders.Create)
	protected.Get("/orders/:id", cfg.Orders.Get)
	protected.Put("/orders/:id", cfg.Orders.Update)
	protected.Delete("/orders/:id", cfg.Orders.Delete)
	protected.Post("/orders/:id/convert-to-shipment", cfg.Orders.ConvertToShipment)

	protected.Get("/vehicles", cfg.Vehicles.List)
	protected.Post("/vehicles", auth.RequireRole(domain.RoleAdmin, domain.RoleOperator), cfg.Vehicles.Create)
	protected.Get("/vehicles/:id", cfg.Vehicles.Get)
	protected.Put("/vehicles/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleOperator), cfg.Vehicles.Update)
	protected.Delete("/vehicles/:id", auth.RequireRole(domain.RoleAdmin), cfg.Vehicles.Delete)

	protected.Get("/notifications", cfg.Notifications.List)
	protected.Put("/notifications/read-all", cfg.Notifications.MarkAllRead)
	protected.Put("/notifications/:id/read", cfg.Notifications.MarkRead)
}
