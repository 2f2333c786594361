package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypePurchase       = "PURCHASE"
	TransactionTypeAIUsage        = "AI_USAGE"
	TransactionTypeSignupBonus    = "SIGNUP_BONUS"
	TransactionTypeReferralBonus  = "REFERRAL_BONUS"
	TransactionTypeAdminAdjust    = "ADMIN_ADJUSTMENT"
	TransactionTypeRedemptionCode = "REDEMPTION_CODE"
	TransactionTypeRefund         = "REFUND"
	TransactionTypeReward         = "REWARD"
)

// Transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// Transaction is one immutable ledger entry. A transfer produces two rows,
// a debit leg and a credit leg, sharing a Reference; a mint or burn produces
// a single row with no counterparty. Only Status (and CompletedAt) ever
// change after creation, and only for rows awaiting external confirmation.
type Transaction struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Reference      string          `gorm:"index;not null" json:"reference"`
	AccountID      uint            `gorm:"index;not null" json:"account_id"`
	CounterpartyID *uint           `json:"counterparty_id,omitempty"`
	Type           string          `gorm:"not null" json:"type"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"amount"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"balance_after"`
	Status         string          `gorm:"not null;default:'PENDING'" json:"status"`
	Description    string          `json:"description"`
	ExternalRef    *string         `gorm:"index" json:"external_ref,omitempty"`
	Metadata       JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// IsDebit reports whether this leg moved value out of AccountID.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
