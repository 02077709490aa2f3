package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
)

// TokenValidity is how long an issued token stays valid.
const TokenValidity = 7 * 24 * time.Hour

// ErrInvalidToken is returned by Verify for any token that is malformed,
// tampered with or outside its validity window.
var ErrInvalidToken = apierror.NewWithCode(http.StatusUnauthorized, "Unauthorized")

// A TokenManager issues and verifies bearer tokens of the form
// subject:issuedAtMillis:hexSignature, signed with a server-held key.
type TokenManager struct {
	signingKey []byte
	validity   time.Duration
	now        func() time.Time
}

// NewTokenManager returns a new TokenManager with the default validity window.
func NewTokenManager(signingKey []byte) *TokenManager {
	return &TokenManager{
		signingKey: signingKey,
		validity:   TokenValidity,
		now:        time.Now,
	}
}

// Issue returns a new signed token for the given subject.
func (m *TokenManager) Issue(subject string) string {
	issuedAt := strconv.FormatInt(m.now().UnixMilli(), 10)
	payload := subject + ":" + issuedAt
	return payload + ":" + m.sign(payload)
}

// Verify checks the given token and returns its subject.
// The subject may itself contain the delimiter, so the token is parsed from
// the right: the last two fields are the timestamp and the signature.
func (m *TokenManager) Verify(token string) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 3 {
		return "", ErrInvalidToken
	}

	signature := parts[len(parts)-1]
	issuedAt := parts[len(parts)-2]
	subject := strings.Join(parts[:len(parts)-2], ":")
	if subject == "" || issuedAt == "" || signature == "" {
		return "", ErrInvalidToken
	}

	millis, err := strconv.ParseInt(issuedAt, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	age := m.now().Sub(time.UnixMilli(millis))
	if age < 0 || age > m.validity {
		return "", ErrInvalidToken
	}

	expected := m.sign(subject + ":" + issuedAt)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", ErrInvalidToken
	}

	return subject, nil
}

func (m *TokenManager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
