package token

import (
	"crypto/rand"
	"fmt"
)

const opaqueAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RefreshTokenLength is the length of opaque refresh tokens.
const RefreshTokenLength = 64

// NewOpaque returns a random alphanumeric string of the given length from a
// cryptographically secure source. If the entropy source fails the error is
// returned as-is; callers must abort rather than fall back to anything
// weaker.
func NewOpaque(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("opaque token length must be positive")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = opaqueAlphabet[int(b)%len(opaqueAlphabet)]
	}

	return string(out), nil
}
