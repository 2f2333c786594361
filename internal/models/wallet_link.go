package models

import "time"

// Wallet link statuses
const (
	WalletLinkStatusActive   = "ACTIVE"
	WalletLinkStatusInactive = "INACTIVE"
)

// WalletLink binds an account to an externally controlled blockchain
// address. At most one ACTIVE link exists per account, and an address is
// ACTIVE for at most one account system-wide; both rules are partial unique
// indexes, so the loser of a concurrent connect fails at insert. Links are
// soft-deleted on disconnect so the history survives.
type WalletLink struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	AccountID  uint       `gorm:"not null;index:idx_wallet_links_one_active_account,unique,where:status = 'ACTIVE'" json:"account_id"`
	Address    string     `gorm:"not null;index:idx_wallet_links_one_active_address,unique,where:status = 'ACTIVE'" json:"address"`
	Network    string     `gorm:"not null" json:"network"`
	Status     string     `gorm:"not null;default:'ACTIVE'" json:"status"`
	LinkedAt   time.Time  `json:"linked_at"`
	UnlinkedAt *time.Time `json:"unlinked_at,omitempty"`
}
