package repositories

import (
	"context"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a Postgres-backed ledger repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetOrCreate(ctx context.Context, accountID uint) (*models.Account, error) {
	var acct models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		acct = *locked
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	return &acct, nil
}

func (r *ledgerRepository) ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal, txType string, counterpartyID *uint, description string, metadata models.JSON) (*models.Transaction, error) {
	if delta.IsZero() {
		return nil, apperrors.ErrInvalidAmount
	}

	var entry *models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		entry, err = applyDeltaLocked(tx, acct, delta, txType, counterpartyID, description, uuid.NewString(), metadata)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ledgerRepository) ApplyTransfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, txType, description string, metadata models.JSON) (*models.Transaction, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, apperrors.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, nil, apperrors.ErrInvalidOperation
	}

	var debit, credit *models.Transaction
	reference := uuid.NewString()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccountPair(tx, fromID, toID)
		if err != nil {
			return err
		}

		debit, err = applyDeltaLocked(tx, locked[fromID], amount.Neg(), txType, &toID, description, reference, metadata)
		if err != nil {
			return err
		}
		credit, err = applyDeltaLocked(tx, locked[toID], amount, txType, &fromID, description, reference, metadata)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

func (r *ledgerRepository) ApplyTransferOnce(ctx context.Context, fromID, toID uint, amount decimal.Decimal, txType, description string, metadata models.JSON) (*models.Transaction, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, apperrors.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, nil, apperrors.ErrInvalidOperation
	}

	var debit, credit *models.Transaction
	reference := uuid.NewString()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccountPair(tx, fromID, toID)
		if err != nil {
			return err
		}

		// With the receiver's row locked, a concurrent grant has either
		// committed its rows (visible here) or is blocked behind the lock.
		var count int64
		if err := tx.Model(&models.Transaction{}).
			Where("account_id = ? AND type = ? AND status = ?",
				toID, txType, models.TransactionStatusCompleted).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check transaction type: %w", err)
		}
		if count > 0 {
			return apperrors.ErrBonusAlreadyGranted
		}

		debit, err = applyDeltaLocked(tx, locked[fromID], amount.Neg(), txType, &toID, description, reference, metadata)
		if err != nil {
			return err
		}
		credit, err = applyDeltaLocked(tx, locked[toID], amount, txType, &fromID, description, reference, metadata)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

// lockAccountPair locks both rows in ascending id order so two opposing
// transfers cannot deadlock each other.
func lockAccountPair(tx *gorm.DB, fromID, toID uint) (map[uint]*models.Account, error) {
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	locked := map[uint]*models.Account{}
	for _, id := range []uint{first, second} {
		acct, err := lockAccount(tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = acct
	}
	return locked, nil
}

// lockAccount takes the per-account write lock, creating a zero row first if
// the account has never been referenced.
func lockAccount(tx *gorm.DB, accountID uint) (*models.Account, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Account{ID: accountID}).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure account %d: %w", accountID, err)
	}

	var acct models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, accountID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	return &acct, nil
}

// applyDeltaLocked mutates a row already locked by the surrounding database
// transaction and writes its audit entry.
func applyDeltaLocked(tx *gorm.DB, acct *models.Account, delta decimal.Decimal, txType string, counterpartyID *uint, description, reference string, metadata models.JSON) (*models.Transaction, error) {
	newBalance := acct.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, apperrors.ErrInsufficientBalance
	}

	acct.Balance = newBalance
	if delta.IsPositive() {
		acct.LifetimeEarned = acct.LifetimeEarned.Add(delta)
	} else {
		acct.LifetimeSpent = acct.LifetimeSpent.Add(delta.Neg())
	}
	if err := tx.Save(acct).Error; err != nil {
		return nil, fmt.Errorf("failed to update account %d: %w", acct.ID, err)
	}

	now := time.Now().UTC()
	entry := &models.Transaction{
		Reference:      reference,
		AccountID:      acct.ID,
		CounterpartyID: counterpartyID,
		Type:           txType,
		Amount:         delta,
		BalanceAfter:   newBalance,
		Status:         models.TransactionStatusCompleted,
		Description:    description,
		Metadata:       metadata,
		CompletedAt:    &now,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return entry, nil
}

func (r *ledgerRepository) CreatePending(ctx context.Context, entry *models.Transaction) error {
	entry.Status = models.TransactionStatusPending
	entry.CompletedAt = nil
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record pending transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ResolvePending(ctx context.Context, reference, status string) (*models.Transaction, error) {
	var entry models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ? AND status = ?", reference, models.TransactionStatusPending).
			First(&entry).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrTransactionNotFound
			}
			return fmt.Errorf("failed to load pending transaction: %w", err)
		}

		now := time.Now().UTC()
		entry.Status = status
		entry.CompletedAt = &now
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) GetByReference(ctx context.Context, reference string) ([]models.Transaction, error) {
	var entries []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}
	return entries, nil
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error) {
	var entries []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) ReplayBalance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND status = ? AND external_ref IS NULL",
			accountID, models.TransactionStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to replay balance: %w", err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *ledgerRepository) HasCompletedType(ctx context.Context, accountID uint, txType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("account_id = ? AND type = ? AND status = ?",
			accountID, txType, models.TransactionStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check transaction type: %w", err)
	}
	return count > 0, nil
}
