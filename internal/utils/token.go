package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns a hex string generated from n bytes of
// cryptographically secure random data. Both access and refresh token
// values are produced this way; at 48 bytes (96 hex chars) the collision
// probability is negligible, so uniqueness violations are treated as
// retryable flukes rather than handled algorithmically.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
