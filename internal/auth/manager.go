package auth

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// UserStore is the storage surface the auth core consumes. Lookups return
// (nil, nil) when no user matches, so a miss is not an error. Both write
// operations must be atomic at the row level.
type UserStore interface {
	// FindByEmail looks a user up by normalized (lowercased, trimmed) email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID looks a user up by its opaque id.
	FindByID(ctx context.Context, id string) (*model.User, error)
	// UpdateRefreshTokenHash sets or clears (nil) the stored refresh token
	// hash for a user.
	UpdateRefreshTokenHash(ctx context.Context, id string, hash *string) error
	// ReplaceRefreshTokenHash swaps the stored hash from oldHash to newHash
	// in a single conditional update. It reports false when the stored value
	// no longer equals oldHash, meaning a concurrent rotation or revocation
	// won the row.
	ReplaceRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) (bool, error)
}

// Config carries the token manager's deployment-fixed parameters. It is
// passed explicitly to NewManager; there is no package-level settings state.
type Config struct {
	Secret     string        // HS256 signing secret, shared by both token kinds
	AccessTTL  time.Duration // lifetime of access tokens (minutes scale)
	RefreshTTL time.Duration // lifetime of refresh tokens (days scale)
	BcryptCost int           // cost for password and refresh token hashing
}

// Session is a freshly issued access/refresh token pair.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Manager implements the credential verifier and the token manager. All
// operations are short synchronous units of work; the only shared mutable
// state is the per-user refresh token hash, guarded by the store's atomic
// row writes.
type Manager struct {
	cfg    Config
	secret []byte
	users  UserStore
}

func NewManager(cfg Config, users UserStore) *Manager {
	return &Manager{cfg: cfg, secret: []byte(cfg.Secret), users: users}
}

// Authenticate validates an email/password pair and returns the matching
// user. Unknown email and wrong password both yield ErrInvalidCredentials;
// nothing distinguishes the two, which prevents user enumeration. Read-only.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueAccessToken signs a short-lived access token for the user. Pure
// function of its inputs, the clock and the secret; no storage side effects.
func (m *Manager) IssueAccessToken(userID, email string) (string, time.Time, error) {
	return signToken(m.secret, userID, email, m.cfg.AccessTTL)
}

// IssueRefreshToken signs a long-lived refresh token. The caller is
// responsible for persisting its hash; this function does not touch storage.
func (m *Manager) IssueRefreshToken(userID, email string) (string, time.Time, error) {
	return signToken(m.secret, userID, email, m.cfg.RefreshTTL)
}

// IssueSession issues an access/refresh pair for an authenticated user and
// persists the refresh token's hash on the user row, replacing whatever hash
// was stored before. Used by the login path; any previously issued refresh
// token for the user stops working.
func (m *Manager) IssueSession(ctx context.Context, user *model.User) (Session, error) {
	access, accessExp, err := m.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}
	refresh, refreshExp, err := m.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}
	hash, err := HashRefreshToken(refresh, m.cfg.BcryptCost)
	if err != nil {
		return Session{}, err
	}
	if err := m.users.UpdateRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccessToken checks signature and expiry of an access token and
// returns its claims. Stateless; never touches storage.
func (m *Manager) VerifyAccessToken(token string) (*Claims, error) {
	return parseToken(m.secret, token)
}

// VerifyAndRotateRefreshToken validates a refresh token end to end and, on
// success, rotates it: a new refresh token is issued and its hash replaces
// the stored one in a single compare-and-swap, so the presented token stops
// working immediately. Returns the decoded claims and the replacement token.
//
// Failure modes: bad signature/expiry -> ErrInvalidToken; user gone ->
// ErrInvalidToken; no stored hash, hash mismatch, or a lost swap against a
// concurrent rotation/logout -> ErrRevokedToken.
func (m *Manager) VerifyAndRotateRefreshToken(ctx context.Context, token string) (*Claims, string, time.Time, error) {
	claims, err := parseToken(m.secret, token)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	u, err := m.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if u == nil {
		return nil, "", time.Time{}, ErrInvalidToken
	}
	if u.RefreshTokenHash == nil || !VerifyRefreshTokenHash(*u.RefreshTokenHash, token) {
		return nil, "", time.Time{}, ErrRevokedToken
	}
	newToken, newExp, err := m.IssueRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	newHash, err := HashRefreshToken(newToken, m.cfg.BcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	swapped, err := m.users.ReplaceRefreshTokenHash(ctx, u.ID, *u.RefreshTokenHash, newHash)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !swapped {
		return nil, "", time.Time{}, ErrRevokedToken
	}
	return claims, newToken, newExp, nil
}

// CurrentUser loads the user a verified token's subject refers to. Returns
// ErrUserNotFound when the account was deleted after the token was issued.
func (m *Manager) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Revoke clears the stored refresh token hash for a user, invalidating every
// outstanding refresh token regardless of its own expiry. Idempotent: calling
// it for an already-revoked or unknown user is a no-op.
func (m *Manager) Revoke(ctx context.Context, userID string) error {
	return m.users.UpdateRefreshTokenHash(ctx, userID, nil)
}
