package transaction

import (
	"context"

	"dealtokens/internal/models"
	"dealtokens/internal/services/ratelimit"

	"github.com/shopspring/decimal"
)

// Limiter guards transaction and purchase volume per account.
type Limiter interface {
	Check(ctx context.Context, accountID uint, class ratelimit.Class) error
}

// BalanceInvalidator drops cached balances after a ledger mutation.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, accountID uint)
}

// LinkResolver reports whether an account's balance authority is external.
type LinkResolver interface {
	ActiveLink(ctx context.Context, accountID uint) (*models.WalletLink, error)
}

// ChainTransferer submits transfers to the external network.
type ChainTransferer interface {
	Transfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal) (externalRef string, err error)
}

// PricingResolver maps a service type to its current fee.
type PricingResolver interface {
	FeeFor(ctx context.Context, serviceType string) (decimal.Decimal, error)
}

// Service is the transaction processor: every balance-affecting operation
// of the token platform goes through here.
type Service interface {
	// Transfer moves amount between two internal accounts. Both legs
	// commit atomically; the returned transaction is the debit leg.
	Transfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, reason, txType string) (*models.Transaction, error)

	// DeductServiceFee charges the account the current fee for an AI
	// service, paid to the treasury. No side effects when the balance is
	// inadequate.
	DeductServiceFee(ctx context.Context, accountID uint, serviceType string) (*models.Transaction, error)

	// DistributeReward pays a reward from the reward pool.
	DistributeReward(ctx context.Context, accountID uint, rewardType string, amount decimal.Decimal) (*models.Transaction, error)

	// CreditPurchase credits purchased tokens from the treasury.
	CreditPurchase(ctx context.Context, accountID uint, amount decimal.Decimal, orderRef string) (*models.Transaction, error)

	// RedeemCode credits a redemption code's value from the treasury. Code
	// validation belongs to the consumer app; this records the grant.
	RedeemCode(ctx context.Context, accountID uint, amount decimal.Decimal, code string) (*models.Transaction, error)

	// GrantSignupBonus credits the one-time signup bonus.
	GrantSignupBonus(ctx context.Context, accountID uint) (*models.Transaction, error)

	// TransferExternal submits an on-chain transfer from the account's
	// linked wallet and records a PENDING audit row. Internal balances are
	// not touched.
	TransferExternal(ctx context.Context, accountID uint, toAddress string, amount decimal.Decimal) (*models.Transaction, error)

	// ConfirmExternal finalizes a PENDING external transfer to COMPLETED
	// or FAILED once the gateway reports the outcome.
	ConfirmExternal(ctx context.Context, reference string, success bool) (*models.Transaction, error)

	// GetTransaction returns all legs recorded under a reference.
	GetTransaction(ctx context.Context, reference string) ([]models.Transaction, error)

	// GetStatus returns the status of the transaction with the reference.
	GetStatus(ctx context.Context, reference string) (string, error)

	// History lists an account's transactions, newest first.
	History(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error)
}
