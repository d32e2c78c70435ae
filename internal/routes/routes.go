// Package routes wires the HTTP collaborator onto the ledger engines.
package routes

import (
	"time"

	"contractpay/internal/handlers"
	"contractpay/internal/logger"
	"contractpay/internal/middleware"
	"contractpay/internal/repositories"
	"contractpay/internal/services/deposit"
	"contractpay/internal/services/payment"
	"contractpay/internal/services/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Dependencies is everything the routes need. Cache may be nil.
type Dependencies struct {
	JWTSecret    string
	AdminKeyHash string
	Profiles     repositories.ProfileRepository
	Payments     payment.Service
	Deposits     deposit.Service
	Reports      report.Service
	Database     handlers.Pinger
	Cache        handlers.Pinger
	Logger       *logger.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	health := handlers.NewHealthHandler(deps.Database, deps.Cache)
	app.Get("/health", health.HealthCheck)

	auth := middleware.NewAuthMiddleware(deps.JWTSecret, deps.Profiles, deps.Logger)

	paymentHandler := handlers.NewPaymentHandler(deps.Payments)
	jobs := app.Group("/jobs", auth.Handler)
	jobs.Post("/:job_id/pay", paymentHandler.PayJob)

	balanceHandler := handlers.NewBalanceHandler(deps.Deposits)
	balances := app.Group("/balances", auth.Handler)
	balances.Post("/deposit", balanceHandler.Deposit)
	balances.Get("/deposit/limit", balanceHandler.DepositLimit)

	adminHandler := handlers.NewAdminHandler(deps.Reports)
	admin := app.Group("/admin", middleware.AdminKey(deps.AdminKeyHash), limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))
	admin.Get("/best-profession", adminHandler.BestProfession)
	admin.Get("/best-clients", adminHandler.BestClients)
}
