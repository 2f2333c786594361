package walletlink

import (
	"context"

	"dealtokens/internal/models"

	"github.com/shopspring/decimal"
)

// BlockchainGateway is the narrow client contract for the external network.
// It is the sole authority on address ownership proofs and on balances of
// linked wallets. Any call may fail; failures surface to the caller as
// ErrGatewayUnavailable, never swallowed.
type BlockchainGateway interface {
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
	Transfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal) (externalRef string, err error)
	VerifySignature(ctx context.Context, address, challenge, signature string) (bool, error)
}

// Service manages the account-to-wallet bindings.
type Service interface {
	// IssueChallenge creates a short-lived nonce the wallet owner must sign
	// to prove control of the address during Connect.
	IssueChallenge(ctx context.Context, accountID uint) (string, error)

	// Connect verifies the signature over the issued challenge and creates
	// an ACTIVE link. While linked, balance authority for the account is
	// the external network.
	Connect(ctx context.Context, accountID uint, address, signature string) (*models.WalletLink, error)

	// Disconnect soft-deletes the matching ACTIVE link.
	Disconnect(ctx context.Context, accountID uint, address string) (*models.WalletLink, error)

	// ActiveLink returns the account's ACTIVE link, or ErrWalletNotFound.
	ActiveLink(ctx context.Context, accountID uint) (*models.WalletLink, error)
}
