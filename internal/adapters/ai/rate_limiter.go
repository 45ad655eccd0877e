package ai

import (
	"context"

	"golang.org/x/time/rate"

	"ideascope/pkg/errors"
)

// RateLimiter bounds the request rate against a single provider.
type RateLimiter struct {
	limiter  *rate.Limiter
	provider ProviderName
}

// NewRateLimiter creates a limiter allowing reqPerMinute requests with a
// burst of roughly 10% of the rate.
func NewRateLimiter(provider ProviderName, reqPerMinute float64) *RateLimiter {
	burst := int(reqPerMinute / 10)
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(reqPerMinute/60.0), burst),
		provider: provider,
	}
}

// Wait blocks until a request may proceed or the context is cancelled.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrRateLimitExceeded, "%s: %v", l.provider, err)
	}
	return nil
}

// Allow reports whether a request may proceed without blocking.
func (l *RateLimiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured rate in requests per minute.
func (l *RateLimiter) Limit() float64 {
	return float64(l.limiter.Limit()) * 60.0
}
