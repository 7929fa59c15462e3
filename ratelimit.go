package main

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter admits or rejects a request for a client key. Implementations
// must make the read-count-then-increment step atomic per key.
type RateLimiter interface {
	Check(ctx context.Context, key string, now time.Time) (Decision, error)
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter counts requests per client key in fixed windows. State lives
// entirely in process memory; a restart clears all counters.
type MemoryLimiter struct {
	mu       sync.Mutex
	windows  map[string]*rateWindow
	limit    int
	interval time.Duration
}

func NewMemoryLimiter(limit int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows:  make(map[string]*rateWindow),
		limit:    limit,
		interval: interval,
	}
}

// Check admits the request unless the key's current window is already at the
// limit. A first-seen key, or one whose window has elapsed, starts a fresh
// window with this request counted.
func (l *MemoryLimiter) Check(_ context.Context, key string, now time.Time) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{count: 1, resetAt: now.Add(l.interval)}
		l.windows[key] = w
		return Decision{Allowed: true, Remaining: l.limit - 1, ResetAt: w.resetAt}, nil
	}

	w.count++
	if w.count > l.limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: w.resetAt}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - w.count, ResetAt: w.resetAt}, nil
}

// Cleanup drops windows whose reset time has passed, so the key map does not
// grow without bound under many distinct clients.
func (l *MemoryLimiter) Cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// StartJanitor sweeps expired windows once per interval until ctx is done.
func (l *MemoryLimiter) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup(time.Now())
			}
		}
	}()
}
