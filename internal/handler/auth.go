package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
	"github.com/iliyamo/appointment-scheduler/internal/config"
)

// Transport cookie names for the two token kinds. The auth core only
// produces and consumes opaque signed strings; the cookie binding is owned
// entirely by this handler.
const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg config.Config
	Mgr *auth.Manager
}

func NewAuthHandler(cfg config.Config, mgr *auth.Manager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Mgr: mgr}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResp struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Login verifies credentials and starts a session: both tokens are issued,
// the refresh token's hash is persisted, and the tokens travel back as
// HTTP-only cookies. Credential failures are a single generic 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email, err := normalizeLogin(&req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Mgr.Authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	sess, err := h.Mgr.IssueSession(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	h.setSessionCookies(c, sess)
	return c.JSON(http.StatusOK, echo.Map{"message": "login successful"})
}

// Me returns the authenticated user's identity. Runs behind JWTAuth, so the
// access token has already been verified; a 404 here means the account was
// deleted after the token was issued.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Mgr.CurrentUser(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, meResp{ID: u.ID, Email: u.Email, IsActive: u.IsActive})
}

// Refresh exchanges a valid refresh cookie for a new access token and, per
// the rotation policy, a new refresh token; the presented one stops working
// immediately. Every failure is the same 401 so the client's only recovery
// is a fresh login.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ck, err := c.Cookie(refreshCookie)
	if err != nil || ck.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	claims, newRefresh, newRefreshExp, err := h.Mgr.VerifyAndRotateRefreshToken(ctx, ck.Value)
	if err != nil {
		if errors.Is(err, auth.ErrRevokedToken) {
			// Rotated-away or revoked tokens are logged distinctly but
			// surfaced to the caller exactly like any other invalid token.
			c.Logger().Infof("refresh with revoked token for sub=%s", subjectOf(h.Mgr, ck.Value))
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	access, accessExp, err := h.Mgr.IssueAccessToken(claims.Subject, claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	h.setSessionCookies(c, auth.Session{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     newRefresh,
		RefreshExpiresAt: newRefreshExp,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "token refreshed"})
}

// Logout revokes the stored refresh token hash when a cookie still
// identifies the user, then unconditionally expires both transport cookies.
// Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Both token kinds share the codec and secret, so either cookie can
	// identify the user for revocation. Best effort only.
	for _, name := range []string{refreshCookie, accessCookie} {
		ck, err := c.Cookie(name)
		if err != nil || ck.Value == "" {
			continue
		}
		if claims, err := h.Mgr.VerifyAccessToken(ck.Value); err == nil {
			_ = h.Mgr.Revoke(ctx, claims.Subject)
			break
		}
	}

	h.clearSessionCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ----- helpers -----

// normalizeLogin applies the boundary policy: email lowercased, trimmed and
// shape-checked; password non-empty, not all whitespace, at least 8 chars.
// The returned email is the normalized form.
func normalizeLogin(req *loginReq) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return "", errors.New("email required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errors.New("invalid email")
	}
	if strings.TrimSpace(req.Password) == "" {
		return "", errors.New("password required")
	}
	if len(req.Password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	return email, nil
}

func (h *AuthHandler) setSessionCookies(c echo.Context, sess auth.Session) {
	h.setCookie(c, accessCookie, sess.AccessToken, int(time.Until(sess.AccessExpiresAt).Seconds()))
	h.setCookie(c, refreshCookie, sess.RefreshToken, int(time.Until(sess.RefreshExpiresAt).Seconds()))
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	h.setCookie(c, accessCookie, "", -1)
	h.setCookie(c, refreshCookie, "", -1)
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// subjectOf extracts the subject claim for logging without re-validating;
// returns "?" when the token does not parse.
func subjectOf(mgr *auth.Manager, token string) string {
	if claims, err := mgr.VerifyAccessToken(token); err == nil {
		return claims.Subject
	}
	return "?"
}
