package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "correct horse batterz"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordFreshSaltPerCall(t *testing.T) {
	h1, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)

	// bcrypt salts per call, so two hashes of the same plaintext differ
	// while both still verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same input"))
	assert.True(t, VerifyPassword(h2, "same input"))
}

func TestRefreshTokenHashHandlesLongTokens(t *testing.T) {
	// Signed JWTs are far longer than bcrypt's 72-byte input limit and share
	// a common header prefix. Two long tokens that agree on their first 72
	// bytes must still hash and verify independently.
	prefix := strings.Repeat("a", 100)
	t1 := prefix + ".one"
	t2 := prefix + ".two"

	h1, err := HashRefreshToken(t1, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyRefreshTokenHash(h1, t1))
	assert.False(t, VerifyRefreshTokenHash(h1, t2))
}
