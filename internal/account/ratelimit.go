// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package account

import (
	"sync"
	"time"
)

// Defaults for the login rate limiter: a burst of 10 attempts, refilling at
// one attempt per second.
const (
	limiterCapacity = 10
	limiterRefill   = 1
)

// rateLimiter is a per-key token bucket. Each login attempt spends one
// token; an empty bucket means the attempt is refused before any credential
// material is touched.
type rateLimiter struct {
	mu       sync.Mutex
	capacity float64
	refill   float64 // tokens per second
	buckets  map[string]*tokenBucket
	now      func() time.Time
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

func newRateLimiter(capacity, refillPerSec float64) *rateLimiter {
	return &rateLimiter{
		capacity: capacity,
		refill:   refillPerSec,
		buckets:  make(map[string]*tokenBucket),
		now:      time.Now,
	}
}

// Allow reports whether one attempt for key may proceed, consuming a token
// when it does. Keys are created lazily with a full bucket.
func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: rl.capacity, last: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.refill
	if b.tokens > rl.capacity {
		b.tokens = rl.capacity
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
