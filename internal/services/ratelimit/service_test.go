package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "dealtokens/internal/errors"

	"github.com/stretchr/testify/assert"
)

// fakeCounterStore mimics the redis counter semantics in memory, with
// manually advanced expiry.
type fakeCounterStore struct {
	mu       sync.Mutex
	counts   map[string]int64
	expiries map[string]time.Time
	now      time.Time
	failing  bool
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counts:   make(map[string]int64),
		expiries: make(map[string]time.Time),
		now:      time.Unix(1700000000, 0),
	}
}

func (f *fakeCounterStore) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeCounterStore) IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errors.New("connection refused")
	}
	if exp, ok := f.expiries[key]; ok && !f.now.Before(exp) {
		delete(f.counts, key)
		delete(f.expiries, key)
	}
	f.counts[key]++
	if f.counts[key] == 1 {
		f.expiries[key] = f.now.Add(window)
	}
	return f.counts[key], nil
}

func (f *fakeCounterStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeCounterStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (f *fakeCounterStore) Delete(ctx context.Context, key string) error {
	return nil
}

func TestCheck_TransactionWindow(t *testing.T) {
	store := newFakeCounterStore()
	limiter := NewService(store, nil)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		assert.NoError(t, limiter.Check(ctx, 1, ClassTransaction), "call %d should pass", i+1)
	}

	err := limiter.Check(ctx, 1, ClassTransaction)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited, "31st call within the window must be limited")

	// The next call after the window elapses succeeds.
	store.advance(61 * time.Second)
	assert.NoError(t, limiter.Check(ctx, 1, ClassTransaction))
}

func TestCheck_PurchaseWindow(t *testing.T) {
	store := newFakeCounterStore()
	limiter := NewService(store, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.NoError(t, limiter.Check(ctx, 7, ClassPurchase))
	}
	assert.ErrorIs(t, limiter.Check(ctx, 7, ClassPurchase), apperrors.ErrRateLimited)

	// Within the hour the counter stays saturated.
	store.advance(30 * time.Minute)
	assert.ErrorIs(t, limiter.Check(ctx, 7, ClassPurchase), apperrors.ErrRateLimited)

	store.advance(31 * time.Minute)
	assert.NoError(t, limiter.Check(ctx, 7, ClassPurchase))
}

func TestCheck_AccountsAreIndependent(t *testing.T) {
	store := newFakeCounterStore()
	limiter := NewService(store, nil)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		assert.NoError(t, limiter.Check(ctx, 1, ClassTransaction))
	}
	assert.ErrorIs(t, limiter.Check(ctx, 1, ClassTransaction), apperrors.ErrRateLimited)

	// A different account still has a fresh window.
	assert.NoError(t, limiter.Check(ctx, 2, ClassTransaction))
}

func TestCheck_StoreFailureBlocksOperation(t *testing.T) {
	store := newFakeCounterStore()
	store.failing = true
	limiter := NewService(store, nil)

	err := limiter.Check(context.Background(), 1, ClassTransaction)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestCheck_UnknownClass(t *testing.T) {
	limiter := NewService(newFakeCounterStore(), nil)
	assert.Error(t, limiter.Check(context.Background(), 1, Class("bogus")))
}

func TestCheck_CustomLimits(t *testing.T) {
	store := newFakeCounterStore()
	limiter := NewService(store, map[Class]Limit{
		ClassTransaction: {Max: 2, Window: time.Minute},
	})
	ctx := context.Background()

	assert.NoError(t, limiter.Check(ctx, 1, ClassTransaction))
	assert.NoError(t, limiter.Check(ctx, 1, ClassTransaction))
	assert.ErrorIs(t, limiter.Check(ctx, 1, ClassTransaction), apperrors.ErrRateLimited)
}
