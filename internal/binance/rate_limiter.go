package binance

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Binance spot limits: 6000 request weight per minute. The limiter stays
// well under that and opens a circuit when the exchange signals a ban.
const (
	maxWeightPerMinute = 5000
	defaultBanBackoff  = 60 * time.Second
)

// RateLimiter implements proactive weight-based rate limiting with a
// circuit breaker for exchange-imposed bans.
type RateLimiter struct {
	mu sync.Mutex

	currentWeight int
	weightResetAt time.Time
	banUntil      time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		weightResetAt: time.Now().Add(time.Minute),
	}
}

// Acquire reserves request weight, failing fast while the circuit is open
// or the minute budget is exhausted.
func (rl *RateLimiter) Acquire(weight int) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	if now.Before(rl.banUntil) {
		return &ExchangeError{
			StatusCode: 429,
			Message:    fmt.Sprintf("rate limiter circuit open until %s", rl.banUntil.Format(time.RFC3339)),
		}
	}

	if now.After(rl.weightResetAt) {
		rl.currentWeight = 0
		rl.weightResetAt = now.Add(time.Minute)
	}

	if rl.currentWeight+weight > maxWeightPerMinute {
		return &ExchangeError{
			StatusCode: 429,
			Message:    fmt.Sprintf("local weight budget exhausted (%d/%d)", rl.currentWeight, maxWeightPerMinute),
		}
	}

	rl.currentWeight += weight
	return nil
}

// RecordBan opens the circuit after a 429/418 response, honoring the
// Retry-After header when present.
func (rl *RateLimiter) RecordBan(retryAfter string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	backoff := defaultBanBackoff
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			backoff = time.Duration(secs) * time.Second
		}
	}
	rl.banUntil = time.Now().Add(backoff)
}
