// Package transaction orchestrates the token platform's transfers: spend
// flows (service fees), earn flows (purchases, rewards, bonuses, codes),
// and the audit trail for on-chain transfers of linked wallets.
package transaction

import (
	"context"
	"errors"
	"fmt"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"
	"dealtokens/internal/repositories"
	"dealtokens/internal/services/ratelimit"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds processor tunables.
type Config struct {
	SignupBonus decimal.Decimal
}

type service struct {
	ledger   repositories.LedgerRepository
	limiter  Limiter
	balances BalanceInvalidator
	links    LinkResolver
	gateway  ChainTransferer
	pricing  PricingResolver
	config   Config
}

// NewService creates the transaction processor.
func NewService(
	ledger repositories.LedgerRepository,
	limiter Limiter,
	balances BalanceInvalidator,
	links LinkResolver,
	gateway ChainTransferer,
	pricing PricingResolver,
	config Config,
) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if limiter == nil {
		panic("limiter is required")
	}
	if balances == nil {
		panic("balance invalidator is required")
	}
	if links == nil {
		panic("link resolver is required")
	}
	if gateway == nil {
		panic("chain transferer is required")
	}
	if pricing == nil {
		panic("pricing resolver is required")
	}
	if config.SignupBonus.IsZero() {
		config.SignupBonus = decimal.NewFromInt(100)
	}

	return &service{
		ledger:   ledger,
		limiter:  limiter,
		balances: balances,
		links:    links,
		gateway:  gateway,
		pricing:  pricing,
		config:   config,
	}
}

func (s *service) Transfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, reason, txType string) (*models.Transaction, error) {
	if !transferTypes[txType] {
		return nil, apperrors.ErrInvalidOperation
	}
	return s.transfer(ctx, fromID, toID, amount, reason, txType, ratelimit.ClassTransaction, nil)
}

// transfer is the one internal value-movement path. Every public operation
// funnels through it so the atomicity, rate-limit, link-freeze, and cache
// rules apply uniformly.
func (s *service) transfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, reason, txType string, class ratelimit.Class, metadata models.JSON) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apperrors.ErrInvalidOperation
	}

	// A linked account's internal balance is frozen in both directions.
	for _, id := range []uint{fromID, toID} {
		if err := s.assertUnlinked(ctx, id); err != nil {
			return nil, err
		}
	}

	// System accounts are not user-driven and carry no window.
	if !isSystemAccount(fromID) {
		if err := s.limiter.Check(ctx, fromID, class); err != nil {
			return nil, err
		}
	} else if !isSystemAccount(toID) {
		if err := s.limiter.Check(ctx, toID, class); err != nil {
			return nil, err
		}
	}

	apply := s.ledger.ApplyTransfer
	if txType == models.TransactionTypeSignupBonus {
		// One-shot type: the repeat check runs under the receiver's row
		// lock, so concurrent claims cannot both credit.
		apply = s.ledger.ApplyTransferOnce
	}

	debit, _, err := apply(ctx, fromID, toID, amount, txType, reason, metadata)
	if err != nil {
		return nil, err
	}

	// Invalidation happens before the operation reports success, so a
	// caller that re-reads immediately observes the post-transfer balance.
	s.balances.Invalidate(ctx, fromID)
	s.balances.Invalidate(ctx, toID)

	zap.L().Info("transfer completed",
		zap.String("reference", debit.Reference),
		zap.Uint("from", fromID),
		zap.Uint("to", toID),
		zap.String("type", txType),
		zap.String("amount", amount.String()),
		zap.String("balance_after", debit.BalanceAfter.String()))
	return debit, nil
}

func (s *service) DeductServiceFee(ctx context.Context, accountID uint, serviceType string) (*models.Transaction, error) {
	fee, err := s.pricing.FeeFor(ctx, serviceType)
	if err != nil {
		return nil, err
	}
	return s.transfer(ctx, accountID, models.TreasuryAccountID, fee,
		"service_fee:"+serviceType, models.TransactionTypeAIUsage,
		ratelimit.ClassTransaction,
		models.NewJSON(map[string]interface{}{"service_type": serviceType}))
}

func (s *service) DistributeReward(ctx context.Context, accountID uint, rewardType string, amount decimal.Decimal) (*models.Transaction, error) {
	return s.transfer(ctx, models.RewardPoolAccountID, accountID, amount,
		rewardType, models.TransactionTypeReward, ratelimit.ClassTransaction, nil)
}

func (s *service) CreditPurchase(ctx context.Context, accountID uint, amount decimal.Decimal, orderRef string) (*models.Transaction, error) {
	return s.transfer(ctx, models.TreasuryAccountID, accountID, amount,
		"token_purchase", models.TransactionTypePurchase, ratelimit.ClassPurchase,
		models.NewJSON(map[string]interface{}{"order_ref": orderRef}))
}

func (s *service) RedeemCode(ctx context.Context, accountID uint, amount decimal.Decimal, code string) (*models.Transaction, error) {
	return s.transfer(ctx, models.TreasuryAccountID, accountID, amount,
		"code_redemption", models.TransactionTypeRedemptionCode, ratelimit.ClassTransaction,
		models.NewJSON(map[string]interface{}{"code": code}))
}

func (s *service) GrantSignupBonus(ctx context.Context, accountID uint) (*models.Transaction, error) {
	// Fast path; the ledger re-checks under the account's row lock.
	granted, err := s.ledger.HasCompletedType(ctx, accountID, models.TransactionTypeSignupBonus)
	if err != nil {
		return nil, err
	}
	if granted {
		return nil, apperrors.ErrBonusAlreadyGranted
	}
	return s.transfer(ctx, models.TreasuryAccountID, accountID, s.config.SignupBonus,
		"signup_bonus", models.TransactionTypeSignupBonus, ratelimit.ClassTransaction, nil)
}

func (s *service) TransferExternal(ctx context.Context, accountID uint, toAddress string, amount decimal.Decimal) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	link, err := s.links.ActiveLink(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Check(ctx, accountID, ratelimit.ClassTransaction); err != nil {
		return nil, err
	}

	// The snapshot is taken before submission; the internal balance is
	// frozen while linked, so it cannot move underneath the audit row.
	acct, err := s.ledger.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	externalRef, err := s.gateway.Transfer(ctx, link.Address, toAddress, amount)
	if err != nil {
		// Fail closed: the gateway rejected or died, no row is written.
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGatewayUnavailable, err)
	}

	entry := &models.Transaction{
		Reference:    externalRef,
		AccountID:    accountID,
		Type:         TypeExternalTransfer,
		Amount:       amount.Neg(),
		BalanceAfter: acct.Balance,
		Description:  "on-chain transfer to " + toAddress,
		ExternalRef:  &externalRef,
		Metadata: models.NewJSON(map[string]interface{}{
			"from_address": link.Address,
			"to_address":   toAddress,
			"network":      link.Network,
		}),
	}
	if err := s.ledger.CreatePending(ctx, entry); err != nil {
		return nil, err
	}

	zap.L().Info("external transfer submitted",
		zap.Uint("account_id", accountID),
		zap.String("external_ref", externalRef),
		zap.String("amount", amount.String()))
	return entry, nil
}

func (s *service) ConfirmExternal(ctx context.Context, reference string, success bool) (*models.Transaction, error) {
	status := models.TransactionStatusCompleted
	if !success {
		status = models.TransactionStatusFailed
	}

	// FAILED applies no balance change: external rows never touched the
	// internal ledger, so there is nothing to reverse.
	entry, err := s.ledger.ResolvePending(ctx, reference, status)
	if err != nil {
		return nil, err
	}

	zap.L().Info("external transfer resolved",
		zap.String("reference", reference),
		zap.String("status", status))
	return entry, nil
}

func (s *service) GetTransaction(ctx context.Context, reference string) ([]models.Transaction, error) {
	return s.ledger.GetByReference(ctx, reference)
}

func (s *service) GetStatus(ctx context.Context, reference string) (string, error) {
	entries, err := s.ledger.GetByReference(ctx, reference)
	if err != nil {
		return "", err
	}
	return entries[0].Status, nil
}

func (s *service) History(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListByAccount(ctx, accountID, limit, offset)
}

func (s *service) assertUnlinked(ctx context.Context, accountID uint) error {
	if isSystemAccount(accountID) {
		return nil
	}
	_, err := s.links.ActiveLink(ctx, accountID)
	if err == nil {
		return apperrors.ErrWalletLinked
	}
	if errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil
	}
	return err
}

func isSystemAccount(accountID uint) bool {
	return accountID == models.TreasuryAccountID || accountID == models.RewardPoolAccountID
}

// validateAmount enforces a strictly positive amount at the ledger's
// fixed-point scale.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
