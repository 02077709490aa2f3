package auth

import "time"

// SetClock overrides the clock of a TokenManager or an in-memory Limiter.
func SetClock(v any, now func() time.Time) {
	switch v := v.(type) {
	case *TokenManager:
		v.now = now
	case *memoryLimiter:
		v.now = now
	default:
		panic("unsupported clock holder")
	}
}

// Sign exposes the token signature primitive.
func (m *TokenManager) Sign(payload string) string {
	return m.sign(payload)
}
