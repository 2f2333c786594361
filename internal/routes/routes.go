// Package routes wires repositories, services, and handlers onto the fiber
// app.
package routes

import (
	"dealtokens/internal/config"
	"dealtokens/internal/gateway"
	"dealtokens/internal/handlers"
	"dealtokens/internal/middleware"
	"dealtokens/internal/repositories"
	"dealtokens/internal/services/balance"
	"dealtokens/internal/services/pricing"
	"dealtokens/internal/services/ratelimit"
	"dealtokens/internal/services/transaction"
	"dealtokens/internal/services/walletlink"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	ledgerRepo := repositories.NewLedgerRepository(db)
	linkRepo := repositories.NewWalletLinkRepository(db)
	pricingRepo := repositories.NewPricingRepository(db)

	chainGateway := gateway.NewHTTPGateway(config.GetEnv("CHAIN_GATEWAY_URL", "http://localhost:8545"))

	linkService := walletlink.NewService(
		linkRepo,
		repositories.Counters,
		chainGateway,
		config.GetEnv("CHAIN_NETWORK", walletlink.NetworkEthereum),
	)
	balanceService := balance.NewService(ledgerRepo, repositories.Counters, linkService, chainGateway)
	limiter := ratelimit.NewService(repositories.Counters, nil)
	pricingResolver := pricing.NewResolver(pricingRepo)

	txService := transaction.NewService(
		ledgerRepo,
		limiter,
		balanceService,
		linkService,
		chainGateway,
		pricingResolver,
		transaction.Config{},
	)

	walletHandler := handlers.NewWalletHandler(balanceService, linkService)
	txHandler := handlers.NewTransactionHandler(txService)
	adminHandler := handlers.NewAdminHandler(ledgerRepo, pricingRepo)

	app.Get("/health", handlers.Health)

	api := app.Group("/api", middleware.Auth)
	api.Get("/balance", walletHandler.GetBalance)
	api.Post("/transfer", txHandler.Transfer)
	api.Post("/usage/charge", txHandler.ChargeUsage)
	api.Post("/bonus", txHandler.ClaimSignupBonus)
	api.Get("/transactions", txHandler.History)
	api.Get("/transactions/:reference/status", txHandler.Status)

	api.Post("/wallet/challenge", walletHandler.Challenge)
	api.Post("/wallet/connect", walletHandler.Connect)
	api.Post("/wallet/disconnect", walletHandler.Disconnect)
	api.Post("/wallet/transfer", txHandler.ExternalTransfer)

	admin := api.Group("/admin", middleware.AdminOnly)
	admin.Post("/rewards", txHandler.DistributeReward)
	admin.Post("/purchases", txHandler.CreditPurchase)
	admin.Post("/redemptions", txHandler.RedeemCode)
	admin.Post("/confirmations", txHandler.ConfirmExternal)
	admin.Get("/accounts/:id/audit", adminHandler.AuditAccount)
	admin.Post("/prices", adminHandler.CreatePrice)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFound(c, "route not found")
	})
}
