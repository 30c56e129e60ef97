// Package auth implements the authentication core: credential verification,
// access/refresh token issuance and verification, and refresh token rotation
// and revocation. It depends on storage only through the UserStore interface
// and knows nothing about HTTP or cookies.
package auth

import "errors"

// Sentinel errors returned by the auth core. Handlers translate all of the
// token/credential failures into a single generic 401 response; the
// distinction between ErrInvalidToken and ErrRevokedToken exists for internal
// logging only and must not leak to callers.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password";
	// the two causes are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed encoding, signature mismatch and
	// expiry in the past, for either token kind.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRevokedToken means a refresh token that verified cryptographically
	// no longer matches the hash stored for its user (rotated away or
	// explicitly revoked).
	ErrRevokedToken = errors.New("revoked token")

	// ErrUserNotFound means a token was cryptographically valid but the
	// referenced user no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
