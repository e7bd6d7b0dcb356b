package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum delay between consecutive requests to the same
// endpoint. The scrape stage shares one instance between the listing and
// detail clients so the site sees a steady request rate.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: endpoint name
	minDelay time.Duration
}

// New creates a limiter that spaces requests to each endpoint by minDelay.
// A non-positive minDelay disables pacing.
func New(minDelay time.Duration) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (l *Limiter) limiterFor(endpoint string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[endpoint]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(l.minDelay), 1)
	l.limiters[endpoint] = lim
	return lim
}

// Wait blocks until the endpoint may be called again. Returns an error only
// if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	if l == nil || l.minDelay <= 0 {
		return nil
	}
	if err := l.limiterFor(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, err)
	}
	return nil
}
