package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() Config {
	return Config{
		Secret:     "test-secret",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager(testConfig(), nil)

	token, exp, err := m.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestRefreshTokenLongerLived(t *testing.T) {
	m := NewManager(testConfig(), nil)

	token, _, err := m.IssueRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 14*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokensDistinctWithinSameSecond(t *testing.T) {
	// iat/exp truncate to whole seconds, so back-to-back issuance relies on
	// the jti claim to keep tokens distinct.
	m := NewManager(testConfig(), nil)

	t1, _, err := m.IssueRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)
	t2, _, err := m.IssueRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	c1, err := m.VerifyAccessToken(t1)
	require.NoError(t, err)
	c2, err := m.VerifyAccessToken(t2)
	require.NoError(t, err)
	assert.NotEmpty(t, c1.ID)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = -time.Minute // already expired at issuance
	m := NewManager(cfg, nil)

	token, _, err := m.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedSignatureRejected(t *testing.T) {
	m := NewManager(testConfig(), nil)
	token, _, err := m.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "a-different-secret"
	_, err = NewManager(other, nil).VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	m := NewManager(testConfig(), nil)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.VerifyAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestUnsignedTokenRejected(t *testing.T) {
	// A token declaring alg=none must not pass, even with intact claims.
	claims := Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager(testConfig(), nil).VerifyAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
