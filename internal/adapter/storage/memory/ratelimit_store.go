package memory

import (
	"context"
	"fmt"
	"time"

	"spendwiser/internal/core/ports"

	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitStore counts requests in process memory.
type RateLimitStore struct {
	store limiter.Store
}

// NewRateLimitStore creates a rate limit store with its own counters.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		store: limitermemory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          "ratelimit",
			CleanUpInterval: time.Minute,
		}),
	}
}

// Allow checks if a request is within the rate limit for key.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	lim := limiter.New(s.store, limiter.Rate{Period: window, Limit: limit})

	lctx, err := lim.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("memory rate limit get: %w", err)
	}

	return &ports.RateLimitResult{
		Allowed:   !lctx.Reached,
		Limit:     lctx.Limit,
		Remaining: lctx.Remaining,
		ResetAt:   lctx.Reset,
	}, nil
}
