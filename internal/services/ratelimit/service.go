// Package ratelimit bounds per-account operation volume with sliding-window
// counters held in the shared counter store.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	apperrors "dealtokens/internal/errors"
	"dealtokens/internal/repositories/cache"
)

// Class identifies which window applies to an operation.
type Class string

const (
	ClassTransaction Class = "transaction"
	ClassPurchase    Class = "purchase"
)

// Limit is one window configuration.
type Limit struct {
	Max    int64
	Window time.Duration
}

// DefaultLimits matches the product defaults: 30 transactions per minute,
// 5 purchases per hour.
func DefaultLimits() map[Class]Limit {
	return map[Class]Limit{
		ClassTransaction: {Max: 30, Window: time.Minute},
		ClassPurchase:    {Max: 5, Window: time.Hour},
	}
}

// Service checks operation counters against their configured windows.
type Service interface {
	// Check counts one attempt for the account in the given class. It
	// returns ErrRateLimited when the attempt exceeds the window's
	// threshold; the caller's operation must not proceed.
	Check(ctx context.Context, accountID uint, class Class) error
}

type service struct {
	counters cache.CounterStore
	limits   map[Class]Limit
}

// NewService creates a rate limiter. Nil limits fall back to the defaults.
func NewService(counters cache.CounterStore, limits map[Class]Limit) Service {
	if counters == nil {
		panic("counter store is required")
	}
	if limits == nil {
		limits = DefaultLimits()
	}
	return &service{counters: counters, limits: limits}
}

func (s *service) Check(ctx context.Context, accountID uint, class Class) error {
	limit, ok := s.limits[class]
	if !ok {
		return fmt.Errorf("unknown rate limit class %q", class)
	}

	key := counterKey(accountID, class)
	count, err := s.counters.IncrementWithExpiry(ctx, key, limit.Window)
	if err != nil {
		// An unreachable store fails the check, it never waves the
		// operation through.
		return fmt.Errorf("rate limit check failed: %w", err)
	}

	if count > limit.Max {
		return apperrors.ErrRateLimited
	}
	return nil
}

func counterKey(accountID uint, class Class) string {
	return fmt.Sprintf("ratelimit:%s:%d", class, accountID)
}
