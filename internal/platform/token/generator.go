// Package token generates unguessable random identifiers.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// ResetTokenLength is the length of a password-reset token.
	ResetTokenLength = 32

	// alphabet is the character set for reset tokens (letters and digits).
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Generator produces random tokens from a cryptographically secure source.
type Generator interface {
	// Generate returns a fresh 32-character alphanumeric reset token.
	Generate() (string, error)

	// NewSessionID returns a fresh 64-character hex session identifier.
	NewSessionID() (string, error)
}

// generator implements Generator using crypto/rand.
type generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() Generator {
	return &generator{}
}

// Generate returns a 32-character token drawn uniformly from letters and
// digits. Predictability here would be an account-takeover vector, so the
// randomness source must be crypto/rand, never math/rand.
func (g *generator) Generate() (string, error) {
	buf := make([]byte, ResetTokenLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewSessionID returns a 64-character hex session identifier.
func (g *generator) NewSessionID() (string, error) {
	return NewSessionID()
}

// NewSessionID returns a 64-character hex session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
