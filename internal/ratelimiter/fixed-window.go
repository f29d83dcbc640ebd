package ratelimiter

import (
	"sync"
	"time"
)

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// FixedWindowRateLimiter counts requests per key; each key's window starts at
// its first request.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow reports whether key may make another request and, if not, how long
// until its window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[key] = window{start: now, count: 1}
		rl.evict(now)
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		rl.clients[key] = w
		return true, 0
	}

	return false, rl.window - now.Sub(w.start)
}

// evict drops windows that have already ended.
func (rl *FixedWindowRateLimiter) evict(now time.Time) {
	for k, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, k)
		}
	}
}
