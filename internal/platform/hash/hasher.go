// Package hash provides password hashing and verification.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// legacyDigestLength is the length of a hex-encoded SHA-256 digest.
const legacyDigestLength = 64

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	// Hash generates a salted digest from a plaintext password.
	Hash(plaintext string) (string, error)

	// Verify reports whether the plaintext matches the stored digest.
	Verify(plaintext, digest string) bool
}

// bcryptHasher implements Hasher using bcrypt for new digests while still
// verifying legacy unsalted SHA-256 hex digests found in older credential
// documents.
type bcryptHasher struct {
	cost int
}

// NewHasher creates a new bcrypt-backed Hasher at the default cost.
func NewHasher() Hasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash generates a bcrypt digest from the plaintext password.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify checks the plaintext against either a bcrypt digest or a legacy
// hex SHA-256 digest, depending on the stored format.
func (h *bcryptHasher) Verify(plaintext, digest string) bool {
	if isLegacyDigest(digest) {
		sum := sha256.Sum256([]byte(plaintext))
		computed := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(digest))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// isLegacyDigest reports whether the stored digest is a bare hex SHA-256
// digest rather than a bcrypt hash.
func isLegacyDigest(digest string) bool {
	if len(digest) != legacyDigestLength {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
