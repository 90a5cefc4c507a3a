// Package routes wires the HTTP handlers to their paths and middleware.
package routes

import (
	"time"

	"cardpay/internal/handlers"
	"cardpay/internal/logger"
	"cardpay/internal/metrics"
	"cardpay/internal/middleware"
	"cardpay/internal/models"
	"cardpay/internal/services/auth"
	"cardpay/internal/services/card"
	"cardpay/internal/services/preferences"
	"cardpay/internal/services/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Version string

	Auth        auth.Service
	Cards       card.Service
	Preferences preferences.Service
	Sessions    *session.Registry
	Metrics     *metrics.Metrics

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	HealthChecks map[string]handlers.HealthCheck
	// Cache feeds the admin stats endpoint; nil leaves redis out of it.
	Cache handlers.PoolStater

	Log *logrus.Logger
}

// SetupRoutes registers every route on app.
func SetupRoutes(app *fiber.App, d Deps) {
	component := func(name string) *logrus.Entry { return logger.Component(d.Log, name) }

	authHandler := handlers.NewAuthHandler(d.Auth, d.AccessTTL, d.RefreshTTL, component("auth_handler"))
	sessionHandler := handlers.NewCardSessionHandler(d.Sessions, component("card_session_handler"))
	cardHandler := handlers.NewCreditCardHandler(d.Cards, component("card_handler"))
	prefsHandler := handlers.NewPreferencesHandler(d.Preferences, component("preferences_handler"))
	healthHandler := handlers.NewHealthHandler(d.Version, d.HealthChecks)
	adminHandler := handlers.NewAdminHandler(d.Sessions, d.Cache)

	app.Get("/health", healthHandler.Check)
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	authMiddleware := middleware.NewAuthMiddleware(d.Auth, component("auth_middleware"))
	protected := api.Group("", authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)

	protected.Get("/preferences", prefsHandler.Get)
	protected.Put("/preferences", middleware.HasPermission(models.PermissionPreferencesWrite), prefsHandler.Update)

	setupCardSessionRoutes(protected, sessionHandler)

	cards := protected.Group("/cards")
	cards.Get("/", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetCards)
	cards.Delete("/:id", middleware.HasPermission(models.PermissionCardWrite), cardHandler.DeleteCard)

	admin := protected.Group("/admin", middleware.HasPermission(models.PermissionReadAdmin))
	admin.Get("/stats", adminHandler.Stats)
}

func setupCardSessionRoutes(router fiber.Router, h *handlers.CardSessionHandler) {
	sessions := router.Group("/card-sessions", middleware.HasPermission(models.PermissionCardWrite))

	sessions.Post("/", h.Create)
	sessions.Get("/:id", h.Get)
	sessions.Delete("/:id", h.Delete)

	sessions.Put("/:id/fields/:field", h.ChangeField)
	sessions.Post("/:id/fields/:field/blur", h.Blur)
	sessions.Post("/:id/cvc-visibility", h.ToggleCvcVisibility)

	sessions.Post("/:id/submit", h.Submit)
	sessions.Post("/:id/result/handled", h.ResultHandled)
}
