package authn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/tokenstore"
	"github.com/cinecore/cine-auth/pkg/user"
)

type testEnv struct {
	tokens *token.Service
	codec  *token.Codec
	users  *user.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := tokenstore.NewInMemStore()
	codec := token.NewCodec("test-secret", 10*time.Minute, 14*24*time.Hour, store)
	users := user.NewService(user.NewInMemRepository())
	return testEnv{
		tokens: token.NewService(codec, store, users),
		codec:  codec,
		users:  users,
	}
}

func (e testEnv) signup(t *testing.T, email string, role user.Role) user.User {
	t.Helper()
	u, err := e.users.Signup(context.Background(), user.SignupParams{
		Email:    email,
		Password: "pass1234!",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

// probe records the Result the middleware bound and always answers 200.
func probe(captured *Result) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if res, ok := ResultFrom(r.Context()); ok {
			*captured = res
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareNoTokenDefersForbidden(t *testing.T) {
	env := newTestEnv(t)
	var captured Result

	handler := Middleware(env.tokens)(probe(&captured))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "the chain must not be halted")
	assert.ErrorAs(t, captured.Err, &ErrForbidden{})
	assert.Nil(t, captured.Principal)
}

func TestMiddlewareLocalToken(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "test@example.com", user.RoleUser)

	access, err := env.codec.CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryAccess)
	require.NoError(t, err)

	var captured Result
	handler := Middleware(env.tokens)(probe(&captured))
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set(token.AccessTokenName, access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NoError(t, captured.Err)
	require.NotNil(t, captured.Principal)
	assert.Equal(t, KindLocal, captured.Principal.Kind)
	assert.Equal(t, u.ID, captured.Principal.ID)
	assert.Equal(t, "test@example.com", captured.Principal.Email)
	assert.Equal(t, user.RoleUser, captured.Principal.Role)
}

func TestMiddlewareOAuthTokenFromCookie(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "oauth@example.com", user.RoleUser)

	access, err := env.codec.CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryOAuth)
	require.NoError(t, err)

	var captured Result
	handler := Middleware(env.tokens)(probe(&captured))
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.AddCookie(&http.Cookie{Name: token.AccessTokenName, Value: access})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NoError(t, captured.Err)
	require.NotNil(t, captured.Principal)
	assert.Equal(t, KindOAuth, captured.Principal.Kind)
}

func TestMiddlewareExpiredTokenDeferred(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "test@example.com", user.RoleUser)

	env.codec.SetNowFunc(func() time.Time { return time.Now().Add(-11 * time.Minute) })
	stale, err := env.codec.CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryAccess)
	require.NoError(t, err)

	var captured Result
	handler := Middleware(env.tokens)(probe(&captured))
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set(token.AccessTokenName, stale)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "the chain must not be halted")
	assert.ErrorAs(t, captured.Err, &token.ErrInvalidToken{})
}

func TestMiddlewareRefreshTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "test@example.com", user.RoleUser)

	refresh, err := env.codec.CreateRefreshToken(context.Background(), "test@example.com", token.CategoryRefresh)
	require.NoError(t, err)

	var captured Result
	handler := Middleware(env.tokens)(probe(&captured))
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set(token.AccessTokenName, refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.ErrorAs(t, captured.Err, &token.ErrInvalidTokenCategory{})
}

func TestMiddlewareSkipsWhitelistedPaths(t *testing.T) {
	env := newTestEnv(t)

	var sawResult bool
	handler := Middleware(env.tokens, "/users/signin", "/users/signup")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawResult = ResultFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/signin", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawResult, "whitelisted paths must bypass authentication")
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "test@example.com", user.RoleUser)

	handler := Middleware(env.tokens)(RequireAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	// Anonymous request: deferred forbidden becomes a 403 at the guard.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body.Code)

	// Authenticated request passes through.
	access, err := env.codec.CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryAccess)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(token.AccessTokenName, access)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	env := newTestEnv(t)
	member := env.signup(t, "member@example.com", user.RoleUser)
	admin := env.signup(t, "admin@example.com", user.RoleAdmin)

	handler := Middleware(env.tokens)(RequireRole(user.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	memberToken, err := env.codec.CreateAccessToken(member.Email, member.ID, string(member.Role), token.CategoryAccess)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(token.AccessTokenName, memberToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	adminToken, err := env.codec.CreateAccessToken(admin.Email, admin.ID, string(admin.Role), token.CategoryAccess)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(token.AccessTokenName, adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
