package router // router wires HTTP routes to their handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Joseamica/backend/internal/config"
	"github.com/Joseamica/backend/internal/handler"
	"github.com/Joseamica/backend/internal/middleware"
	"github.com/Joseamica/backend/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoint and the authenticated
// session probe.  Login is public; /v1/auth/me requires a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterSync registers the POS ingestion surface.  These endpoints are
// called by POS bridge agents, not by staff sessions; they are protected
// by the Redis rate limiter instead of JWTs so a misconfigured bridge
// cannot hammer the reconciler.
func RegisterSync(e *echo.Echo, s *handler.SyncHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/pos", middleware.RateLimit(rl, rdb))
	g.POST("/events/order", s.PostOrderEvent)
	g.POST("/heartbeat", s.PostHeartbeat)
}

// ManagementHandlers bundles the handlers mounted under the protected
// /v1 group so RegisterManagement stays a single call site in main.
type ManagementHandlers struct {
	Venues   *handler.VenueHandler
	Orders   *handler.OrderHandler
	Shifts   *handler.ShiftHandler
	Payments *handler.PaymentHandler
	Reviews  *handler.ReviewHandler
	Staff    *handler.StaffHandler
	Sync     *handler.SyncHandler
}

// RegisterManagement registers the staff-facing management API.  Every
// route requires a valid access token; mutating venue/staff routes and
// the POS command outbox additionally require a management role.
func RegisterManagement(e *echo.Echo, h ManagementHandlers, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	manage := middleware.RequireRole(
		string(model.RoleOwner), string(model.RoleAdmin), string(model.RoleManager))

	// Venues.
	auth.POST("/venues", h.Venues.CreateVenue, manage)
	auth.GET("/venues/:id", h.Venues.GetVenue)
	auth.PUT("/venues/:id", h.Venues.UpdateVenue, manage)
	auth.DELETE("/venues/:id", h.Venues.DeleteVenue, manage)
	auth.GET("/organizations/:id/venues", h.Venues.ListVenues)

	// Orders (read-only; the sync path owns writes).
	auth.GET("/orders/:id", h.Orders.GetOrder)
	auth.GET("/orders/:id/payments", h.Orders.ListOrderPayments)
	auth.GET("/venues/:id/orders", h.Orders.ListOrders)

	// Shifts.
	auth.GET("/shifts/:id", h.Shifts.GetShift)
	auth.GET("/venues/:id/shifts", h.Shifts.ListShifts)

	// Payments and reviews.
	auth.POST("/payments", h.Payments.CreatePayment)
	auth.GET("/venues/:id/payments", h.Payments.ListPayments)
	auth.POST("/reviews", h.Reviews.CreateReview)
	auth.GET("/venues/:id/reviews", h.Reviews.ListReviews)

	// Staff.
	auth.POST("/staff", h.Staff.CreateStaff, manage)
	auth.GET("/venues/:id/staff", h.Staff.ListStaff)

	// POS connection state and the outbound command outbox.
	auth.GET("/venues/:id/pos/connection", h.Sync.GetConnection)
	auth.POST("/venues/:id/pos/connection/acknowledge", h.Sync.AcknowledgeConnection, manage)
	auth.POST("/pos/commands", h.Sync.CreateCommand, manage)
	auth.GET("/pos/commands/:id", h.Sync.GetCommand)
}
