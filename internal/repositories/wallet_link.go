package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"

	"gorm.io/gorm"
)

// WalletLinkRepository persists account-to-address bindings. Links are soft
// deleted: disconnect flips the status, history rows stay.
type WalletLinkRepository interface {
	Create(ctx context.Context, link *models.WalletLink) error
	GetActiveByAccount(ctx context.Context, accountID uint) (*models.WalletLink, error)
	GetActiveByAddress(ctx context.Context, address string) (*models.WalletLink, error)
	Deactivate(ctx context.Context, accountID uint, address string) (*models.WalletLink, error)
}

type walletLinkRepository struct {
	db *gorm.DB
}

func NewWalletLinkRepository(db *gorm.DB) WalletLinkRepository {
	return &walletLinkRepository{db: db}
}

// Create inserts an ACTIVE link. The partial unique indexes on ACTIVE rows
// are the authority on uniqueness; a concurrent connect that slipped past
// the read-side checks fails here.
func (r *walletLinkRepository) Create(ctx context.Context, link *models.WalletLink) error {
	link.Status = models.WalletLinkStatusActive
	link.LinkedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrWalletAlreadyLinked
		}
		return fmt.Errorf("failed to create wallet link: %w", err)
	}
	return nil
}

func (r *walletLinkRepository) GetActiveByAccount(ctx context.Context, accountID uint) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND status = ?", accountID, models.WalletLinkStatusActive).
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet link: %w", err)
	}
	return &link, nil
}

func (r *walletLinkRepository) GetActiveByAddress(ctx context.Context, address string) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).
		Where("address = ? AND status = ?", address, models.WalletLinkStatusActive).
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet link: %w", err)
	}
	return &link, nil
}

func (r *walletLinkRepository) Deactivate(ctx context.Context, accountID uint, address string) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND address = ? AND status = ?",
			accountID, address, models.WalletLinkStatusActive).
			First(&link).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrWalletNotFound
			}
			return fmt.Errorf("failed to get wallet link: %w", err)
		}

		now := time.Now().UTC()
		link.Status = models.WalletLinkStatusInactive
		link.UnlinkedAt = &now
		return tx.Save(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}
