package repositories

import (
	"context"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingRepository reads the time-boxed service pricing rows.
type PricingRepository interface {
	// CurrentFee returns the fee from the row covering the given moment.
	CurrentFee(ctx context.Context, serviceType string, at time.Time) (decimal.Decimal, error)
	Create(ctx context.Context, price *models.ServicePrice) error
}

type pricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) CurrentFee(ctx context.Context, serviceType string, at time.Time) (decimal.Decimal, error) {
	var price models.ServicePrice
	err := r.db.WithContext(ctx).
		Where("service_type = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to > ?)",
			serviceType, at, at).
		Order("effective_from DESC").
		First(&price).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, apperrors.ErrPriceNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to resolve fee for %q: %w", serviceType, err)
	}
	return price.Fee, nil
}

func (r *pricingRepository) Create(ctx context.Context, price *models.ServicePrice) error {
	if err := r.db.WithContext(ctx).Create(price).Error; err != nil {
		return fmt.Errorf("failed to create pricing row: %w", err)
	}
	return nil
}
