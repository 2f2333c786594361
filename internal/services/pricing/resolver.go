// Package pricing resolves service fees from the time-boxed pricing rows.
package pricing

import (
	"context"
	"time"

	"dealtokens/internal/repositories"

	"github.com/shopspring/decimal"
)

// Resolver maps a service type to its current fee.
type Resolver interface {
	FeeFor(ctx context.Context, serviceType string) (decimal.Decimal, error)
}

type resolver struct {
	prices repositories.PricingRepository
	now    func() time.Time
}

// NewResolver creates a resolver over the pricing rows.
func NewResolver(prices repositories.PricingRepository) Resolver {
	if prices == nil {
		panic("pricing repository is required")
	}
	return &resolver{prices: prices, now: time.Now}
}

func (r *resolver) FeeFor(ctx context.Context, serviceType string) (decimal.Decimal, error) {
	return r.prices.CurrentFee(ctx, serviceType, r.now().UTC())
}
