package auth

import (
	"sync"
	"time"
)

const (
	// RateLimitMax is the number of failed logins tolerated within the window.
	RateLimitMax = 5
	// RateLimitWindow is the fixed window of the failed-login counter.
	RateLimitWindow = 5 * time.Minute
)

type (
	// A Limiter throttles failed login attempts per username.
	// Implementations may be process-local or backed by an external store.
	Limiter interface {
		// IsBlocked returns true when the username collected too many
		// failures within the window.
		IsBlocked(username string) bool
		// RecordFailure accounts one failed login attempt.
		RecordFailure(username string)
		// Clear drops the counter, usually after a successful login.
		Clear(username string)
	}

	memoryLimiter struct {
		mu      sync.Mutex
		max     int
		window  time.Duration
		entries map[string]*attempt
		now     func() time.Time
	}

	attempt struct {
		count       int
		lastAttempt time.Time
	}
)

// NewLimiter returns an in-memory fixed-window Limiter.
// Counters are intentionally ephemeral: a process restart clears them.
func NewLimiter(max int, window time.Duration) Limiter {
	return &memoryLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*attempt),
		now:     time.Now,
	}
}

func (l *memoryLimiter) IsBlocked(username string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[username]
	if !ok {
		return false
	}
	if l.expired(entry) {
		delete(l.entries, username)
		return false
	}
	return entry.count >= l.max
}

func (l *memoryLimiter) RecordFailure(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[username]
	if !ok || l.expired(entry) {
		l.entries[username] = &attempt{count: 1, lastAttempt: l.now()}
		return
	}
	entry.count++
	entry.lastAttempt = l.now()
}

func (l *memoryLimiter) Clear(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, username)
}

func (l *memoryLimiter) expired(entry *attempt) bool {
	return l.now().Sub(entry.lastAttempt) > l.window
}
