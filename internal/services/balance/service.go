// Package balance is the read path for account balances: a read-through
// cache over the ledger, with authority redirected to the blockchain
// gateway while a wallet link is active.
package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/repositories/cache"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CacheTTL bounds how stale an unused cache entry can get. Mutations
// invalidate eagerly; the TTL only covers entries nothing has touched.
const CacheTTL = 5 * time.Minute

// Invalidation retries cover store blips shorter than the read outage that
// would keep readers off the cache anyway.
const (
	invalidateAttempts  = 3
	invalidateRetryWait = 50 * time.Millisecond
)

type service struct {
	ledger  LedgerReader
	store   cache.CounterStore
	links   LinkResolver
	gateway ChainReader
}

// NewService creates the balance read service.
func NewService(ledger LedgerReader, store cache.CounterStore, links LinkResolver, gateway ChainReader) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if store == nil {
		panic("counter store is required")
	}
	if links == nil {
		panic("link resolver is required")
	}
	if gateway == nil {
		panic("chain reader is required")
	}
	return &service{ledger: ledger, store: store, links: links, gateway: gateway}
}

func (s *service) GetBalance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	link, err := s.links.ActiveLink(ctx, accountID)
	switch {
	case err == nil:
		// External authority: the internal ledger is frozen while linked.
		bal, err := s.gateway.BalanceOf(ctx, link.Address)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrGatewayUnavailable, err)
		}
		return bal, nil
	case errors.Is(err, apperrors.ErrWalletNotFound):
		// No link, internal authority.
	default:
		return decimal.Zero, err
	}

	if cached, found, err := s.store.Get(ctx, balanceKey(accountID)); err != nil {
		// A dead cache degrades to direct ledger reads.
		zap.L().Warn("balance cache read failed", zap.Uint("account_id", accountID), zap.Error(err))
	} else if found {
		if bal, err := decimal.NewFromString(cached); err == nil {
			return bal, nil
		}
		zap.L().Warn("dropping unparseable balance cache entry",
			zap.Uint("account_id", accountID), zap.String("value", cached))
		s.Invalidate(ctx, accountID)
	}

	acct, err := s.ledger.GetOrCreate(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.store.Set(ctx, balanceKey(accountID), acct.Balance.String(), CacheTTL); err != nil {
		zap.L().Warn("balance cache write failed", zap.Uint("account_id", accountID), zap.Error(err))
	}
	return acct.Balance, nil
}

func (s *service) Invalidate(ctx context.Context, accountID uint) {
	key := balanceKey(accountID)
	var err error
	for attempt := 1; attempt <= invalidateAttempts; attempt++ {
		if err = s.store.Delete(ctx, key); err == nil {
			return
		}
		if attempt == invalidateAttempts {
			break
		}
		select {
		case <-ctx.Done():
			zap.L().Warn("balance cache invalidation abandoned",
				zap.Uint("account_id", accountID), zap.Error(ctx.Err()))
			return
		case <-time.After(invalidateRetryWait):
		}
	}
	// Past the retries, the stale entry is left to its TTL.
	zap.L().Warn("balance cache invalidation failed",
		zap.Uint("account_id", accountID), zap.Error(err))
}

func balanceKey(accountID uint) string {
	return fmt.Sprintf("balance:%d", accountID)
}
