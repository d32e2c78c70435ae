// Package main is the entry point for the ledger HTTP server. It owns the
// store and cache lifecycles and wires the engines onto fiber.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractpay/internal/config"
	"contractpay/internal/handlers"
	"contractpay/internal/logger"
	"contractpay/internal/repositories"
	"contractpay/internal/repositories/cache"
	"contractpay/internal/routes"
	"contractpay/internal/services/deposit"
	"contractpay/internal/services/payment"
	"contractpay/internal/services/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()

	if err := repositories.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	go reportPoolStats(db, log)

	// Reports fall back to uncached queries when redis is unreachable.
	var (
		reportCache report.Cache
		cachePinger handlers.Pinger
	)
	cacheService, err := cache.Connect(context.Background(), cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, report cache disabled", "error", err)
	} else {
		reportCache, cachePinger = cacheService, cacheService
		defer func() {
			if err := cacheService.Close(); err != nil {
				log.Warn("failed to close redis", "error", err)
			}
		}()
	}

	uow := repositories.NewUnitOfWork(db, repositories.TxOptions{
		Isolation:  cfg.Database.TxIsolation,
		MaxRetries: cfg.Database.TxMaxRetries,
	}, log.With("component", "uow"))

	app := fiber.New(fiber.Config{
		AppName:      "contractpay",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Key",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		JWTSecret:    cfg.Auth.JWTSecret,
		AdminKeyHash: cfg.Auth.AdminKeyHash,
		Profiles:     repositories.NewProfileRepository(db),
		Payments:     payment.NewService(uow, log.With("component", "payment")),
		Deposits:     deposit.NewService(uow, log.With("component", "deposit")),
		Reports:      report.NewService(repositories.NewReportRepository(db), reportCache, log.With("component", "report")),
		Database: handlers.PingerFunc(func(ctx context.Context) error {
			return repositories.HealthCheck(ctx, db)
		}),
		Cache:  cachePinger,
		Logger: log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
	}
}

// reportPoolStats logs connection pool usage once a minute.
func reportPoolStats(db *gorm.DB, log *logger.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("pool stats unavailable", "error", err)
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		stats := sqlDB.Stats()
		log.Debug("db pool stats",
			"open", stats.OpenConnections,
			"idle", stats.Idle,
			"in_use", stats.InUse,
			"wait_count", stats.WaitCount,
			"wait_duration", stats.WaitDuration,
		)
	}
}
