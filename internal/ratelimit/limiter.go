// Package ratelimit enforces the per-client violation and ingestion caps:
// repeated malformed packets trip a disconnect, and raw datagram volume
// is bounded before it ever reaches the simulation thread's input queue.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerClientLimiter owns one token bucket per ClientId, created lazily on
// first use and discarded when the client disconnects.
type PerClientLimiter struct {
	mu      sync.Mutex
	r       rate.Limit
	burst   int
	buckets map[int]*rate.Limiter
}

// New builds a limiter where each client may sustain ratePerSec events per
// second with bursts up to burst.
func New(ratePerSec float64, burst int) *PerClientLimiter {
	return &PerClientLimiter{
		r:       rate.Limit(ratePerSec),
		burst:   burst,
		buckets: make(map[int]*rate.Limiter, 16),
	}
}

func (l *PerClientLimiter) bucket(clientID int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[clientID]
	if !ok {
		b = rate.NewLimiter(l.r, l.burst)
		l.buckets[clientID] = b
	}
	return b
}

// Allow reports whether clientID's next event fits within its bucket.
func (l *PerClientLimiter) Allow(clientID int) bool {
	return l.bucket(clientID).Allow()
}

// Forget drops clientID's bucket, called on disconnect.
func (l *PerClientLimiter) Forget(clientID int) {
	l.mu.Lock()
	delete(l.buckets, clientID)
	l.mu.Unlock()
}

// ViolationTracker counts malformed-packet occurrences per client within
// a fixed window that opens at the first violation after the previous
// window expired, and reports when a client has reached maxPerWindow —
// the repeat-offense trigger for a protocol-violation disconnect.
type ViolationTracker struct {
	mu           sync.Mutex
	maxPerWindow int
	window       time.Duration
	counts       map[int]*violationCount
}

type violationCount struct {
	count     int
	windowEnd time.Time
}

func NewViolationTracker(maxPerWindow int, window time.Duration) *ViolationTracker {
	return &ViolationTracker{
		maxPerWindow: maxPerWindow,
		window:       window,
		counts:       make(map[int]*violationCount, 16),
	}
}

// Record logs one violation for clientID and reports whether it has now
// reached maxPerWindow within the current window.
func (t *ViolationTracker) Record(clientID int, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.counts[clientID]
	if !ok || now.After(c.windowEnd) {
		c = &violationCount{count: 0, windowEnd: now.Add(t.window)}
		t.counts[clientID] = c
	}
	c.count++
	return c.count >= t.maxPerWindow
}

// Forget drops clientID's violation history, called on disconnect.
func (t *ViolationTracker) Forget(clientID int) {
	t.mu.Lock()
	delete(t.counts, clientID)
	t.mu.Unlock()
}
