// Package crypto generates the random secrets operators hand to recipebook.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Character sets for generated secrets
const (
	// passwordChars omits the look-alike characters I, O, l, 0 and 1.
	passwordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789-_!@#"

	// TokenSecretBytes is the entropy of a generated token signing secret.
	TokenSecretBytes = 32

	// MinPasswordLength is the shortest password GeneratePassword returns.
	MinPasswordLength = 12
)

// ErrInvalidLength is returned for a password length below MinPasswordLength.
var ErrInvalidLength = errors.New("crypto: password length too short")

// GenerateTokenSecret returns a random 64-character hex string suitable for
// auth.token_secret.
func GenerateTokenSecret() (string, error) {
	key := make([]byte, TokenSecretBytes)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// GeneratePassword returns a random password of the given length.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength {
		return "", ErrInvalidLength
	}
	return generateRandomString(length, passwordChars)
}

// generateRandomString draws uniformly from charset, discarding bytes that
// would bias the modulo.
func generateRandomString(length int, charset string) (string, error) {
	limit := 256 - 256%len(charset)
	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
