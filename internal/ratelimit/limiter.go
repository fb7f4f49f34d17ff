// Package ratelimit provides a process-local sliding-window request limiter.
//
// Buckets live in process memory and are not shared across instances;
// operators running multiple instances accept coarser effective limits.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by client identity. Construct one
// Limiter per endpoint class (resolve, auth, admin) and inject it into the
// middleware for that class; a client blocked on one class is unaffected on
// another.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string][]time.Time
	nowF    func() time.Time
}

// New returns a Limiter admitting at most max requests per key within window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		buckets: make(map[string][]time.Time),
		nowF:    time.Now,
	}
}

// Allow records and admits a request for key if fewer than max requests were
// admitted within the trailing window. Rejected requests are not recorded.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowF()
	kept := l.prune(key, now)
	if len(kept) >= l.max {
		return false
	}
	l.buckets[key] = append(kept, now)
	return true
}

// Remaining returns how many requests key may still make in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.prune(key, l.nowF())
	l.buckets[key] = kept
	if n := l.max - len(kept); n > 0 {
		return n
	}
	return 0
}

// RetryAfter returns how long key must wait before the next request can be
// admitted. Zero when a request would be admitted now.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowF()
	kept := l.prune(key, now)
	l.buckets[key] = kept
	if len(kept) < l.max {
		return 0
	}
	oldest := kept[0]
	return oldest.Add(l.window).Sub(now)
}

// Reset clears all buckets. For test isolation only; never called in
// production request paths.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string][]time.Time)
}

// prune drops timestamps older than the window for key and returns the kept
// slice. Caller must hold l.mu. Empty buckets are deleted so idle keys do not
// accumulate.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	ts := l.buckets[key]
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	kept := ts[i:]
	if len(kept) == 0 {
		delete(l.buckets, key)
		return nil
	}
	return kept
}
