package auth_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ajithkumarky/tulutitans/internal/server/auth"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))

	for _, subject := range []string{"george", "a", "totoro_42", "with:colon:inside"} {
		subject := subject
		token := m.Issue(subject)

		got, err := m.Verify(token)
		assert.NoError(t, err, subject)
		assert.Equal(t, subject, got)
	}
}

func TestTokenFormat(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))
	auth.SetClock(m, func() time.Time { return time.UnixMilli(1136239445999) })

	token := m.Issue("george")
	parts := strings.Split(token, ":")
	assert.Len(t, parts, 3)
	assert.Equal(t, "george", parts[0])
	assert.Equal(t, "1136239445999", parts[1])
	assert.Regexp(t, `^[0-9a-f]{64}$`, parts[2])
}

func TestTokenTampered(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))
	token := m.Issue("george")

	// Signature is hex so flipping any character keeps the structure valid.
	for i := len(token) - 64; i < len(token); i++ {
		tampered := []byte(token)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}

		_, err := m.Verify(string(tampered))
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "offset %d", i)
	}
}

func TestTokenWrongKey(t *testing.T) {
	token := auth.NewTokenManager([]byte("secret")).Issue("george")

	_, err := auth.NewTokenManager([]byte("terces")).Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))

	// Correctly signed but issued beyond the validity window.
	issuedAt := strconv.FormatInt(time.Now().Add(-8*24*time.Hour).UnixMilli(), 10)
	payload := "george:" + issuedAt
	token := payload + ":" + m.Sign(payload)

	_, err := m.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenFromTheFuture(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))

	issuedAt := strconv.FormatInt(time.Now().Add(time.Hour).UnixMilli(), 10)
	payload := "george:" + issuedAt
	token := payload + ":" + m.Sign(payload)

	_, err := m.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	m := auth.NewTokenManager([]byte("secret"))

	for _, token := range []string{
		"",
		"george",
		"george:123456",
		"::",
		"george::signature",
		":123456:signature",
		"george:not-a-timestamp:signature",
	} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, token)
	}
}
