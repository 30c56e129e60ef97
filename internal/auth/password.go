package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the plaintext using the given cost.
// bcrypt embeds a fresh random salt per call, so hashing the same password
// twice yields different digests.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plaintext candidate.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashRefreshToken returns a bcrypt hash of the refresh token suitable for
// storage on the user row. The token is reduced to its SHA-256 hex digest
// first: signed JWTs exceed bcrypt's 72-byte input limit and share a long
// common prefix, so hashing them directly would silently compare only the
// header bytes.
func HashRefreshToken(token string, cost int) (string, error) {
	return HashPassword(fingerprint(token), cost)
}

// VerifyRefreshTokenHash reports whether the presented refresh token matches
// a stored hash produced by HashRefreshToken.
func VerifyRefreshTokenHash(hash, token string) bool {
	return VerifyPassword(hash, fingerprint(token))
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
