package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServicePrice is one time-boxed pricing row. The fee charged for a service
// type is the row whose [EffectiveFrom, EffectiveTo) window covers the
// moment of the charge; a nil EffectiveTo means open-ended.
type ServicePrice struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ServiceType   string          `gorm:"index;not null" json:"service_type"`
	Fee           decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"fee"`
	EffectiveFrom time.Time       `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
