package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload carried by both token kinds: the user id as the
// registered subject, the login email, and the registered iat/exp pair.
// Access and refresh tokens share this shape and differ only in TTL.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// signToken builds and signs an HS256 JWT for a user. The expiry is exactly
// now + ttl; issuance and verification use the same clock, and no leeway is
// granted at parse time. A fresh jti is generated per call: the numeric-date
// claims truncate to whole seconds, so without it two tokens issued within
// the same second would be byte-identical and rotating a refresh token could
// hand back the very string being rotated away.
func signToken(secret []byte, userID, email string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// parseToken verifies the signature and expiry of a token and returns its
// claims. Every failure mode (malformed string, wrong signing method, bad
// signature, expired) collapses into ErrInvalidToken so callers cannot tell
// which check failed.
func parseToken(secret []byte, token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
