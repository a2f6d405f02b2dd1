package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "login_attempts"

// LoginLimiter caps login attempts per key in a fixed window backed by Redis.
// The increment and the window expiry are applied in one atomic script.
type LoginLimiter struct {
	client redis.UniversalClient
	rate   limiter.Rate

	mu      sync.Mutex
	limiter *limiter.Limiter
}

// NewLoginLimiter returns a limiter allowing limit attempts per window.
// A limit <= 0 disables limiting.
func NewLoginLimiter(client redis.UniversalClient, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		rate:   limiter.Rate{Period: window, Limit: int64(limit)},
	}
}

// Allow records an attempt for key and reports whether it is within the limit.
// Redis failures allow the attempt and return the error.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.client == nil || l.rate.Limit <= 0 {
		return true, nil
	}

	lim, err := l.instance()
	if err != nil {
		return true, err
	}
	res, err := lim.Get(ctx, key)
	if err != nil {
		return true, fmt.Errorf("redis login counter: %w", err)
	}
	return !res.Reached, nil
}

// instance builds the store on first use; it loads scripts into Redis, so a
// server that is down at startup is retried on the next attempt.
func (l *LoginLimiter) instance() (*limiter.Limiter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limiter != nil {
		return l.limiter, nil
	}

	store, err := sredis.NewStoreWithOptions(l.client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("redis limiter store: %w", err)
	}
	l.limiter = limiter.New(store, l.rate)
	return l.limiter, nil
}
