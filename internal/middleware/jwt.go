// Package middleware contains reusable HTTP middleware: access token
// authentication, the superuser guard, Redis rate limiting and response
// caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
)

// accessCookie is the transport cookie carrying the access token. The token
// manager itself only deals in opaque signed strings; the cookie binding
// lives entirely in this layer and in the auth handlers.
const accessCookie = "access_token"

// JWTAuth returns an Echo middleware that validates an access token and
// injects the token's subject and email claims into the request context under
// "user_id" and "email". The token is read from the access_token cookie;
// a Bearer Authorization header is accepted as an alternative transport for
// non-browser clients. Verification is fully stateless.
func JWTAuth(mgr *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie(accessCookie); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if h := c.Request().Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			claims, err := mgr.VerifyAccessToken(raw)
			if err != nil {
				// Signature, expiry and malformed-encoding failures are
				// deliberately indistinguishable here.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("email", claims.Email)
			return next(c)
		}
	}
}
