package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeLedger struct {
	accounts map[uint]*models.Account
	calls    int
	err      error
}

func (f *fakeLedger) GetOrCreate(ctx context.Context, accountID uint) (*models.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if acct, ok := f.accounts[accountID]; ok {
		return acct, nil
	}
	acct := &models.Account{ID: accountID, Balance: decimal.Zero}
	f.accounts[accountID] = acct
	return acct, nil
}

type fakeStore struct {
	entries        map[string]string
	err            error
	sets           int
	deletes        int
	deleteFailures int
}

func (f *fakeStore) IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	val, ok := f.entries[key]
	return val, ok, nil
}

func (f *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sets++
	f.entries[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deletes++
	if f.deleteFailures > 0 {
		f.deleteFailures--
		return errors.New("connection refused")
	}
	if f.err != nil {
		return f.err
	}
	delete(f.entries, key)
	return nil
}

type fakeLinks struct {
	links map[uint]*models.WalletLink
	err   error
}

func (f *fakeLinks) ActiveLink(ctx context.Context, accountID uint) (*models.WalletLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	if link, ok := f.links[accountID]; ok {
		return link, nil
	}
	return nil, apperrors.ErrWalletNotFound
}

type fakeChain struct {
	balances map[string]decimal.Decimal
	err      error
}

func (f *fakeChain) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.balances[address], nil
}

func newFixture() (*fakeLedger, *fakeStore, *fakeLinks, *fakeChain, Service) {
	ledger := &fakeLedger{accounts: map[uint]*models.Account{}}
	store := &fakeStore{entries: map[string]string{}}
	links := &fakeLinks{links: map[uint]*models.WalletLink{}}
	chain := &fakeChain{balances: map[string]decimal.Decimal{}}
	return ledger, store, links, chain, NewService(ledger, store, links, chain)
}

func TestGetBalance_ReadThrough(t *testing.T) {
	ledger, store, _, _, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("42.500000")}
	ctx := context.Background()

	// First read misses the cache and populates it.
	bal, err := svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, 1, ledger.calls)
	assert.Equal(t, 1, store.sets)

	// Second read is served from the cache.
	bal, err = svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, 1, ledger.calls)
}

func TestGetBalance_CreatesMissingAccount(t *testing.T) {
	_, _, _, _, svc := newFixture()

	bal, err := svc.GetBalance(context.Background(), 99)
	assert.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestGetBalance_CacheOutageDegradesToLedger(t *testing.T) {
	ledger, store, _, _, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("7.000000")}
	store.err = errors.New("connection refused")

	bal, err := svc.GetBalance(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("7")))
	assert.Equal(t, 1, ledger.calls)
}

func TestGetBalance_LinkedAccountUsesGateway(t *testing.T) {
	ledger, _, links, chain, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("10.000000")}
	links.links[1] = &models.WalletLink{AccountID: 1, Address: "0xabc", Status: models.WalletLinkStatusActive}
	chain.balances["0xabc"] = decimal.RequireFromString("123.456789")

	bal, err := svc.GetBalance(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("123.456789")),
		"linked account must read the chain, not the internal ledger")
	assert.Equal(t, 0, ledger.calls)
}

func TestGetBalance_GatewayFailureSurfaces(t *testing.T) {
	_, _, links, chain, svc := newFixture()
	links.links[1] = &models.WalletLink{AccountID: 1, Address: "0xabc", Status: models.WalletLinkStatusActive}
	chain.err = errors.New("timeout")

	_, err := svc.GetBalance(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrGatewayUnavailable)
}

func TestInvalidate_FreshReadAfterMutation(t *testing.T) {
	ledger, store, _, _, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("100.000000")}
	ctx := context.Background()

	bal, err := svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("100")))

	// Mutation happens underneath, then the cache is invalidated.
	ledger.accounts[1].Balance = decimal.RequireFromString("69.500000")
	svc.Invalidate(ctx, 1)
	assert.Equal(t, 1, store.deletes)

	bal, err = svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("69.5")),
		"read after invalidation must observe the post-mutation balance")
}

func TestInvalidate_RetriesThroughBlip(t *testing.T) {
	ledger, store, _, _, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("100.000000")}
	ctx := context.Background()

	_, err := svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.Contains(t, store.entries, "balance:1")

	// The store drops the first delete; the entry must not outlive the
	// invalidation once the store recovers.
	store.deleteFailures = 1
	ledger.accounts[1].Balance = decimal.RequireFromString("69.500000")
	svc.Invalidate(ctx, 1)
	assert.Equal(t, 2, store.deletes)
	assert.NotContains(t, store.entries, "balance:1")

	bal, err := svc.GetBalance(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("69.5")))
}

func TestGetBalance_CorruptCacheEntryDropped(t *testing.T) {
	ledger, store, _, _, svc := newFixture()
	ledger.accounts[1] = &models.Account{ID: 1, Balance: decimal.RequireFromString("5.000000")}
	store.entries["balance:1"] = "not-a-number"

	bal, err := svc.GetBalance(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("5")))
}
