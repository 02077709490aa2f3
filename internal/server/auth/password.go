// Package auth implements the credential primitives of the game server:
// salted password hashing with legacy-hash support, HMAC bearer tokens and
// failed-login rate limiting.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
)

// SaltSize is the entropy of a password salt, in bytes.
const SaltSize = 16

// HashWithSalt computes the hex-encoded SHA-256 digest of salt+password.
func HashWithSalt(password, salt string) string {
	digest := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(digest[:])
}

// HashLegacy computes the hex-encoded SHA-256 digest of the bare password.
// It only exists to verify records created before salting was introduced and
// must never be used to store a new password.
func HashLegacy(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

// GenerateSalt returns a new hex-encoded random salt.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "could not generate salt")
	}
	return hex.EncodeToString(salt), nil
}

// SecureCompare compares the given strings in a constant time.
// So length info is not leaked via timing attacks.
func SecureCompare(s1, s2 string) bool {
	return subtle.ConstantTimeCompare([]byte(s1), []byte(s2)) == 1
}
