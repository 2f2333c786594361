// Package main seeds a fresh installation: the treasury and reward-pool
// system accounts, the initial service pricing rows, and the reward-pool
// float.
package main

import (
	"context"
	"time"

	"dealtokens/internal/config"
	"dealtokens/internal/models"
	"dealtokens/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var initialPrices = map[string]string{
	"search":       "0.100000",
	"deal_alert":   "0.050000",
	"ai_analysis":  "1.000000",
	"price_digest": "0.250000",
}

func main() {
	config.LoadEnv()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	if err := repositories.InitDB(); err != nil {
		zap.L().Fatal("failed to initialize storage", zap.Error(err))
	}
	defer repositories.CloseDB()

	ctx := context.Background()
	ledger := repositories.NewLedgerRepository(repositories.DB)
	prices := repositories.NewPricingRepository(repositories.DB)

	for _, id := range []uint{models.TreasuryAccountID, models.RewardPoolAccountID} {
		if _, err := ledger.GetOrCreate(ctx, id); err != nil {
			zap.L().Fatal("failed to create system account", zap.Uint("account_id", id), zap.Error(err))
		}
	}

	// The earn flows draw down these floats; topping them up later is a
	// plain ADMIN_ADJUSTMENT mint as well.
	mint(ctx, ledger, models.TreasuryAccountID, config.GetEnv("TREASURY_FLOAT", "10000000"))
	mint(ctx, ledger, models.RewardPoolAccountID, config.GetEnv("REWARD_POOL_FLOAT", "1000000"))

	now := time.Now().UTC()
	for serviceType, fee := range initialPrices {
		price := &models.ServicePrice{
			ServiceType:   serviceType,
			Fee:           decimal.RequireFromString(fee),
			EffectiveFrom: now,
		}
		if err := prices.Create(ctx, price); err != nil {
			zap.L().Fatal("failed to seed pricing row", zap.String("service_type", serviceType), zap.Error(err))
		}
		zap.L().Info("pricing row seeded", zap.String("service_type", serviceType), zap.String("fee", fee))
	}

	zap.L().Info("seed complete")
}

func mint(ctx context.Context, ledger repositories.LedgerRepository, accountID uint, amount string) {
	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		zap.L().Fatal("invalid float amount", zap.String("amount", amount), zap.Error(err))
	}

	tx, err := ledger.ApplyDelta(ctx, accountID, value,
		models.TransactionTypeAdminAdjust, nil, "initial float", nil)
	if err != nil {
		zap.L().Fatal("failed to mint float", zap.Uint("account_id", accountID), zap.Error(err))
	}
	zap.L().Info("float minted",
		zap.Uint("account_id", accountID),
		zap.String("amount", value.String()),
		zap.String("reference", tx.Reference))
}
