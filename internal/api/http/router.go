package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cyberfit/membership-service/internal/api/http/handlers"
	"github.com/cyberfit/membership-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Pages             *handlers.PagesHandler
	Accounts          *handlers.AccountsHandler
	Password          *handlers.PasswordHandler
	Payments          *handlers.PaymentsHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Index)

	app.Get("/registrar", cfg.Accounts.RegisterForm)
	app.Post("/registrar", cfg.Accounts.Register)
	app.Get("/login", cfg.Accounts.LoginForm)
	app.Post("/login", cfg.Accounts.Login)

	app.Get("/esqueci-senha", cfg.Password.ForgotForm)
	app.Post("/esqueci-senha", cfg.Password.Forgot)
	app.Get("/redefinir-senha/:token", cfg.Password.ResetForm)
	app.Post("/redefinir-senha/:token", cfg.Password.Reset)

	// The gateway calls this, not the browser; no session involved.
	app.Post("/webhook", cfg.Payments.Webhook)

	session := app.Group("", cfg.SessionMiddleware.Handle)
	session.Get("/pagamento", cfg.Payments.PaymentForm)
	session.Post("/pagamento", cfg.Payments.StartCheckout)
	session.Get("/liberando-acesso", cfg.Payments.Success)
	session.Get("/falhou", cfg.Payments.Failure)
	session.Get("/logout", cfg.Accounts.Logout)

	session.Get("/calculadora", auth.RequireEntitled(), cfg.Pages.Calculator)
}
