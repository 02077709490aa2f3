package auth_test

import (
	"testing"
	"time"

	"github.com/ajithkumarky/tulutitans/internal/server/auth"
	"github.com/stretchr/testify/assert"
)

func TestLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := auth.NewLimiter(5, 5*time.Minute)

	for i := 0; i < 4; i++ {
		limiter.RecordFailure("george")
		assert.False(t, limiter.IsBlocked("george"), "failure %d", i+1)
	}

	limiter.RecordFailure("george")
	assert.True(t, limiter.IsBlocked("george"))

	// Other identities are not affected.
	assert.False(t, limiter.IsBlocked("totoro"))
}

func TestLimiterWindowExpiry(t *testing.T) {
	now := time.Now()
	clock := &now

	limiter := auth.NewLimiter(5, 5*time.Minute)
	auth.SetClock(limiter, func() time.Time { return *clock })

	for i := 0; i < 5; i++ {
		limiter.RecordFailure("george")
	}
	assert.True(t, limiter.IsBlocked("george"))

	// Once the window lapses the entry is treated as absent.
	later := now.Add(5*time.Minute + time.Second)
	clock = &later
	assert.False(t, limiter.IsBlocked("george"))

	// And the next failure starts a fresh counter.
	limiter.RecordFailure("george")
	assert.False(t, limiter.IsBlocked("george"))
}

func TestLimiterClear(t *testing.T) {
	limiter := auth.NewLimiter(5, 5*time.Minute)

	for i := 0; i < 5; i++ {
		limiter.RecordFailure("george")
	}
	assert.True(t, limiter.IsBlocked("george"))

	limiter.Clear("george")
	assert.False(t, limiter.IsBlocked("george"))
}

func TestLimiterRefreshesWindowOnFailure(t *testing.T) {
	now := time.Now()
	clock := &now

	limiter := auth.NewLimiter(5, 5*time.Minute)
	auth.SetClock(limiter, func() time.Time { return *clock })

	for i := 0; i < 5; i++ {
		limiter.RecordFailure("george")
		later := clock.Add(4 * time.Minute)
		clock = &later
	}

	// Each failure happened within the window of the previous one, so the
	// counter never reset even though 20 minutes elapsed overall.
	assert.True(t, limiter.IsBlocked("george"))
}
