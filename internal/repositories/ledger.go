package repositories

import (
	"context"

	"dealtokens/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository is the system of record for accounts and transactions.
//
// ApplyDelta and ApplyTransfer run their balance check, balance write, and
// audit-row insert as one atomic unit against concurrent mutators of the
// same account: of two concurrent debits that would each pass on a stale
// read, exactly one commits and the other observes the updated balance.
type LedgerRepository interface {
	// GetOrCreate returns the account, creating a zero-balance row if absent.
	GetOrCreate(ctx context.Context, accountID uint) (*models.Account, error)

	// ApplyDelta applies a single signed balance change and records its
	// transaction row. A negative delta that would drive the balance below
	// zero fails with ErrInsufficientBalance and leaves no state behind.
	ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal, txType string, counterpartyID *uint, description string, metadata models.JSON) (*models.Transaction, error)

	// ApplyTransfer debits one account and credits another in the same
	// database transaction, recording a debit leg and a credit leg that
	// share a reference. Either both legs commit or neither does.
	ApplyTransfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, txType, description string, metadata models.JSON) (debit, credit *models.Transaction, err error)

	// ApplyTransferOnce is ApplyTransfer for one-shot grants: it fails with
	// ErrBonusAlreadyGranted when the receiver already holds a COMPLETED
	// transaction of txType. The check runs with the receiver's row locked,
	// so concurrent grants serialize instead of double-crediting.
	ApplyTransferOnce(ctx context.Context, fromID, toID uint, amount decimal.Decimal, txType, description string, metadata models.JSON) (debit, credit *models.Transaction, err error)

	// CreatePending records an audit row for an externally confirmed
	// transfer. No balance changes until the row is resolved.
	CreatePending(ctx context.Context, tx *models.Transaction) error

	// ResolvePending transitions a PENDING row to COMPLETED or FAILED.
	ResolvePending(ctx context.Context, reference, status string) (*models.Transaction, error)

	// GetByReference returns all legs recorded under a reference.
	GetByReference(ctx context.Context, reference string) ([]models.Transaction, error)

	// ListByAccount returns an account's transactions, newest first.
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error)

	// ReplayBalance sums the account's COMPLETED internal transaction log.
	// It must agree with the stored balance at all times; on-chain audit
	// rows never touch the internal balance and are excluded.
	ReplayBalance(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// HasCompletedType reports whether the account already has a COMPLETED
	// credit of the given type (used for one-shot grants).
	HasCompletedType(ctx context.Context, accountID uint, txType string) (bool, error)
}
