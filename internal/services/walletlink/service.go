// Package walletlink binds accounts to externally controlled blockchain
// addresses. A linked account reads its balance from the chain, not from
// the internal ledger; the two are never authoritative at the same time.
package walletlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"
	"dealtokens/internal/repositories"
	"dealtokens/internal/repositories/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const challengeTTL = 10 * time.Minute

type service struct {
	links   repositories.WalletLinkRepository
	store   cache.CounterStore
	gateway BlockchainGateway
	network string
}

// NewService creates a wallet link service. network selects the address
// syntax rules and is recorded on every link.
func NewService(links repositories.WalletLinkRepository, store cache.CounterStore, gateway BlockchainGateway, network string) Service {
	if links == nil {
		panic("wallet link repository is required")
	}
	if store == nil {
		panic("counter store is required")
	}
	if gateway == nil {
		panic("blockchain gateway is required")
	}
	if network == "" {
		network = NetworkEthereum
	}
	return &service{links: links, store: store, gateway: gateway, network: network}
}

func (s *service) IssueChallenge(ctx context.Context, accountID uint) (string, error) {
	challenge := fmt.Sprintf("dealtokens-link:%d:%s", accountID, uuid.NewString())
	if err := s.store.Set(ctx, challengeKey(accountID), challenge, challengeTTL); err != nil {
		return "", fmt.Errorf("failed to store link challenge: %w", err)
	}
	return challenge, nil
}

func (s *service) Connect(ctx context.Context, accountID uint, address, signature string) (*models.WalletLink, error) {
	if err := validateAddress(s.network, address); err != nil {
		return nil, err
	}
	address = normalizeAddress(address)

	challenge, found, err := s.store.Get(ctx, challengeKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to load link challenge: %w", err)
	}
	if !found {
		return nil, apperrors.ErrChallengeExpired
	}

	ok, err := s.gateway.VerifySignature(ctx, address, challenge, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGatewayUnavailable, err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidSignature
	}

	// An address is ACTIVE for at most one account system-wide, and an
	// account holds at most one ACTIVE link. These reads are the fast
	// path; the store's unique indexes settle a connect race at Create.
	if _, err := s.links.GetActiveByAddress(ctx, address); err == nil {
		return nil, apperrors.ErrWalletAlreadyLinked
	} else if !errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil, err
	}
	if _, err := s.links.GetActiveByAccount(ctx, accountID); err == nil {
		return nil, apperrors.ErrWalletAlreadyLinked
	} else if !errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil, err
	}

	link := &models.WalletLink{
		AccountID: accountID,
		Address:   address,
		Network:   s.network,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	// Challenge is single-use. A failed delete only means the nonce idles
	// out on its TTL.
	if err := s.store.Delete(ctx, challengeKey(accountID)); err != nil {
		zap.L().Warn("failed to delete used link challenge",
			zap.Uint("account_id", accountID), zap.Error(err))
	}

	zap.L().Info("wallet linked",
		zap.Uint("account_id", accountID),
		zap.String("address", address),
		zap.String("network", s.network))
	return link, nil
}

func (s *service) Disconnect(ctx context.Context, accountID uint, address string) (*models.WalletLink, error) {
	link, err := s.links.Deactivate(ctx, accountID, normalizeAddress(address))
	if err != nil {
		return nil, err
	}
	zap.L().Info("wallet unlinked",
		zap.Uint("account_id", accountID),
		zap.String("address", link.Address))
	return link, nil
}

func (s *service) ActiveLink(ctx context.Context, accountID uint) (*models.WalletLink, error) {
	return s.links.GetActiveByAccount(ctx, accountID)
}

func challengeKey(accountID uint) string {
	return fmt.Sprintf("walletlink:challenge:%d", accountID)
}
