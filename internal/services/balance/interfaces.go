package balance

import (
	"context"

	"dealtokens/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerReader is the slice of the ledger this package needs.
type LedgerReader interface {
	GetOrCreate(ctx context.Context, accountID uint) (*models.Account, error)
}

// LinkResolver reports whether an account's balance authority is external.
type LinkResolver interface {
	ActiveLink(ctx context.Context, accountID uint) (*models.WalletLink, error)
}

// ChainReader reads balances from the external network for linked accounts.
type ChainReader interface {
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
}

// Service serves account balances through the short-TTL cache.
type Service interface {
	// GetBalance returns the authoritative balance: the external chain
	// balance while a wallet link is ACTIVE, the cached-or-stored internal
	// balance otherwise.
	GetBalance(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// Invalidate drops the cached entry for the account. It runs as part
	// of the same logical operation that commits a ledger mutation, before
	// that operation reports success.
	Invalidate(ctx context.Context, accountID uint)
}
