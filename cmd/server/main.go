// Package main is the entry point for the token ledger service. It loads
// configuration, connects Postgres and Redis, and serves the HTTP API.
package main

import (
	"time"

	"dealtokens/internal/config"
	"dealtokens/internal/repositories"
	"dealtokens/internal/routes"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	zapLogger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	if err := repositories.InitDB(); err != nil {
		zap.L().Fatal("failed to initialize storage", zap.Error(err))
	}
	defer repositories.CloseDB()

	app := fiber.New(fiber.Config{
		AppName: "dealtokens",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Per-IP throttle on the wallet-link endpoints, ahead of the per-account
	// windows the processor enforces.
	app.Use("/api/wallet", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.TooManyRequests(c, "Too many requests. Please try again later.")
		},
	}))

	routes.SetupRoutes(app, repositories.DB)

	addr := ":" + config.GetEnv("PORT", "3000")
	zap.L().Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
