package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// System account IDs. These rows are created by the seeder and behave like
// any other account in the ledger; only the processor treats them specially.
const (
	// TreasuryAccountID issues tokens for purchases and grants and collects
	// service fees.
	TreasuryAccountID uint = 1

	// RewardPoolAccountID funds engagement rewards.
	RewardPoolAccountID uint = 2
)

// Account holds a token balance. The ID is the owning user's ID in the
// consumer application; rows are created lazily on first use. Balance is
// fixed-point with six fractional digits and is never negative.
type Account struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"balance"`
	LifetimeEarned decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"lifetime_earned"`
	LifetimeSpent  decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"lifetime_spent"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate ensures new rows start at explicit zeroes rather than NULL
// numerics.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.Balance.IsZero() {
		a.Balance = decimal.Zero
	}
	if a.LifetimeEarned.IsZero() {
		a.LifetimeEarned = decimal.Zero
	}
	if a.LifetimeSpent.IsZero() {
		a.LifetimeSpent = decimal.Zero
	}
	return nil
}

// IsSystem reports whether the account is one of the platform's own.
func (a *Account) IsSystem() bool {
	return a.ID == TreasuryAccountID || a.ID == RewardPoolAccountID
}
