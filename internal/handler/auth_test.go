// Black-box tests for the auth endpoints: the routes are registered through
// the router exactly as the server wires them, so the external test package
// avoids a handler<->router import cycle.
package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
	"github.com/iliyamo/appointment-scheduler/internal/config"
	"github.com/iliyamo/appointment-scheduler/internal/handler"
	"github.com/iliyamo/appointment-scheduler/internal/model"
	"github.com/iliyamo/appointment-scheduler/internal/router"
)

// stubStore is an in-memory auth.UserStore so the HTTP flow can run without
// a database.
type stubStore struct {
	byID map[string]*model.User
}

var _ auth.UserStore = (*stubStore)(nil)

func newStubStore() *stubStore { return &stubStore{byID: map[string]*model.User{}} }

func (s *stubStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cpy := *u
	return &cpy, nil
}

func (s *stubStore) UpdateRefreshTokenHash(_ context.Context, id string, hash *string) error {
	if u, ok := s.byID[id]; ok {
		u.RefreshTokenHash = hash
	}
	return nil
}

func (s *stubStore) ReplaceRefreshTokenHash(_ context.Context, id, oldHash, newHash string) (bool, error) {
	u, ok := s.byID[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != oldHash {
		return false, nil
	}
	u.RefreshTokenHash = &newHash
	return true, nil
}

// newAuthEnv wires an echo instance with the auth routes exactly as the
// server does, minus the rate limiter.
func newAuthEnv(t *testing.T, accessTTL time.Duration) (*echo.Echo, *stubStore) {
	t.Helper()

	store := newStubStore()
	hash, err := auth.HashPassword("sup3rsecret", bcrypt.MinCost)
	require.NoError(t, err)
	store.byID["user-1"] = &model.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}

	mgr := auth.NewManager(auth.Config{
		Secret:     "test-secret",
		AccessTTL:  accessTTL,
		RefreshTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, store)

	noLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	router.RegisterAuth(e, handler.NewAuthHandler(config.Config{Env: "test"}, mgr), mgr, noLimit)
	return e, store
}

func doJSON(e *echo.Echo, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// cookieNamed returns the response cookie with the given name, or nil.
func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginValidation(t *testing.T) {
	e, _ := newAuthEnv(t, 15*time.Minute)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"sup3rsecret"}`},
		{"malformed email", `{"email":"not-an-email","password":"sup3rsecret"}`},
		{"blank password", `{"email":"alice@example.com","password":"   "}`},
		{"short password", `{"email":"alice@example.com","password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/auth/login", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	e, _ := newAuthEnv(t, 15*time.Minute)

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrongpass1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever12"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	e, _ := newAuthEnv(t, 15*time.Minute)

	// Login sets both HTTP-only cookies; tokens never appear in the body.
	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"Alice@Example.com","password":"sup3rsecret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	access := cookieNamed(rec, "access_token")
	refresh := cookieNamed(rec, "refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.NotContains(t, rec.Body.String(), access.Value)

	// The access cookie authenticates /me.
	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", []*http.Cookie{access})
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "user-1", me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	// No cookie, no access.
	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh rotates: new cookies come back and the presented refresh
	// token stops working.
	rec = doJSON(e, http.MethodGet, "/api/auth/refresh", "", []*http.Cookie{refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	nextAccess := cookieNamed(rec, "access_token")
	nextRefresh := cookieNamed(rec, "refresh_token")
	require.NotNil(t, nextAccess)
	require.NotNil(t, nextRefresh)
	assert.NotEqual(t, refresh.Value, nextRefresh.Value)

	rec = doJSON(e, http.MethodGet, "/api/auth/refresh", "", []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The rotated access token still works.
	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", []*http.Cookie{nextAccess})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes and expires both cookies; the last refresh token is
	// dead afterwards.
	rec = doJSON(e, http.MethodPost, "/api/auth/logout", "", []*http.Cookie{nextAccess, nextRefresh})
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieNamed(rec, "refresh_token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rec = doJSON(e, http.MethodGet, "/api/auth/refresh", "", []*http.Cookie{nextRefresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	e, _ := newAuthEnv(t, -time.Minute)

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"sup3rsecret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, "access_token")
	require.NotNil(t, access)

	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", []*http.Cookie{access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeForDeletedUser(t *testing.T) {
	e, store := newAuthEnv(t, 15*time.Minute)

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"sup3rsecret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, "access_token")

	// Valid token, vanished account: the token still verifies but the
	// lookup comes back empty.
	delete(store.byID, "user-1")
	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", []*http.Cookie{access})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	e, _ := newAuthEnv(t, 15*time.Minute)
	rec := doJSON(e, http.MethodGet, "/api/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerHeaderFallback(t *testing.T) {
	e, _ := newAuthEnv(t, 15*time.Minute)

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"sup3rsecret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, "access_token")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access.Value)
	out := httptest.NewRecorder()
	e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}
