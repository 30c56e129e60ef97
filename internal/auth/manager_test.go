package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// fakeStore is an in-memory UserStore for exercising the manager without a
// database.
type fakeStore struct {
	byID map[string]*model.User

	findErr  error // returned by both lookups when set
	denySwap bool  // force ReplaceRefreshTokenHash to report a lost race
}

var _ UserStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]*model.User{}}
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cpy := *u
	return &cpy, nil
}

func (f *fakeStore) UpdateRefreshTokenHash(_ context.Context, id string, hash *string) error {
	if u, ok := f.byID[id]; ok {
		u.RefreshTokenHash = hash
	}
	return nil
}

func (f *fakeStore) ReplaceRefreshTokenHash(_ context.Context, id, oldHash, newHash string) (bool, error) {
	if f.denySwap {
		return false, nil
	}
	u, ok := f.byID[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != oldHash {
		return false, nil
	}
	u.RefreshTokenHash = &newHash
	return true, nil
}

// seedUser adds a user with a bcrypt-hashed password and returns it.
func seedUser(t *testing.T, f *fakeStore, id, email, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{ID: id, Email: email, PasswordHash: hash, IsActive: true}
	f.byID[id] = u
	return u
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	u, err := m.Authenticate(ctx, "alice@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)

	// Callers normalize, but already-mixed-case input must still match.
	u, err = m.Authenticate(ctx, "  Alice@Example.COM ", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
}

func TestAuthenticateEnumerationResistance(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "user-1", "realuser@x.com", "rightpass")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	_, unknownErr := m.Authenticate(ctx, "nobody@x.com", "whatever1")
	_, wrongPassErr := m.Authenticate(ctx, "realuser@x.com", "wrongpass1")

	// Unknown email and wrong password produce the identical outcome.
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPassErr)
}

func TestIssueSessionPersistsRefreshHash(t *testing.T) {
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)

	sess, err := m.IssueSession(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)
	require.NotEmpty(t, sess.RefreshToken)
	assert.True(t, sess.RefreshExpiresAt.After(sess.AccessExpiresAt))

	stored := store.byID["user-1"].RefreshTokenHash
	require.NotNil(t, stored)
	assert.NotEqual(t, sess.RefreshToken, *stored) // hash, never the raw token
	assert.True(t, VerifyRefreshTokenHash(*stored, sess.RefreshToken))
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	sess, err := m.IssueSession(ctx, u)
	require.NoError(t, err)

	// Issuance and rotation both happen within the same wall-clock second
	// here; the replacement must still be a different token or the swap
	// would leave the presented one alive.
	claims, next, _, err := m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	require.NotEqual(t, sess.RefreshToken, next)

	// The rotated-away token is dead; the replacement still works.
	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, next)
	assert.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	sess, err := m.IssueSession(ctx, u)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, "user-1"))
	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// Idempotent: revoking again (or for an unknown user) is a no-op.
	assert.NoError(t, m.Revoke(ctx, "user-1"))
	assert.NoError(t, m.Revoke(ctx, "no-such-user"))
}

func TestCurrentUser(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	u, err := m.CurrentUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = m.CurrentUser(ctx, "no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefreshForDeletedUser(t *testing.T) {
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	sess, err := m.IssueSession(ctx, u)
	require.NoError(t, err)

	delete(store.byID, "user-1")
	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshLostSwapTreatedAsRevoked(t *testing.T) {
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(testConfig(), store)
	ctx := context.Background()

	sess, err := m.IssueSession(ctx, u)
	require.NoError(t, err)

	// Simulate a concurrent rotation/logout winning the row between the
	// read-verify step and the swap.
	store.denySwap = true
	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestExpiredRefreshTokenRejectedBeforeStorage(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTTL = -time.Minute
	store := newFakeStore()
	u := seedUser(t, store, "user-1", "alice@example.com", "sup3rsecret")
	m := NewManager(cfg, store)
	ctx := context.Background()

	sess, err := m.IssueSession(ctx, u)
	require.NoError(t, err)

	_, _, _, err = m.VerifyAndRotateRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
