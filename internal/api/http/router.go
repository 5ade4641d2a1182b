package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Users   *handlers.UsersHandler
	Session *auth.SessionMiddleware
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/send-reset-otp", cfg.Auth.SendResetOTP)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	session := cfg.Session.Handle
	authGroup.Post("/send-otp", session, cfg.Auth.SendVerifyOTP)
	authGroup.Post("/send-verify-otp", session, cfg.Auth.SendVerifyOTP)
	authGroup.Post("/verify-email", session, cfg.Auth.VerifyEmail)
	authGroup.Post("/verify-account", session, cfg.Auth.VerifyEmail)
	authGroup.Get("/is-auth", session, cfg.Auth.IsAuthenticated)

	userGroup := app.Group("/api/user", session)
	userGroup.Get("/data", cfg.Users.GetUserData)
}
