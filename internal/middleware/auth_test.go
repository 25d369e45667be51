package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercia/commercia-backend/internal/models"
	"github.com/commercia/commercia-backend/internal/services"
	"github.com/commercia/commercia-backend/internal/store"
)

func newResolverFixture(t *testing.T) (*SessionResolver, *services.TokenService, *models.User) {
	t.Helper()

	users := store.NewInMemoryUserStore()
	user, err := users.Create(context.Background(), &models.User{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x", IsVerified: true,
	})
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret")
	return NewSessionResolver(tokens, users), tokens, user
}

// identityProbe records whether an identity was attached to the request.
func identityProbe(got *models.PublicUser, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if user, ok := IdentityFrom(r.Context()); ok {
			*got = user
		}
	})
}

func TestResolve_BearerHeader(t *testing.T) {
	t.Parallel()

	resolver, tokens, user := newResolverFixture(t)
	token, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	var got models.PublicUser
	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resolver.Resolve(identityProbe(&got, &called)).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.Equal(t, user.Public(), got)
}

func TestResolve_Cookie(t *testing.T) {
	t.Parallel()

	resolver, tokens, user := newResolverFixture(t)
	token, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	var got models.PublicUser
	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	resolver.Resolve(identityProbe(&got, &called)).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.Equal(t, user.Public(), got)
}

func TestResolve_InvalidCredentialIsAnonymous(t *testing.T) {
	t.Parallel()

	resolver, _, _ := newResolverFixture(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credential", func(r *http.Request) {}},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "garbage"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.PublicUser
			var called bool
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			resolver.Resolve(identityProbe(&got, &called)).ServeHTTP(rec, req)

			// Resolution never rejects; the request just stays anonymous.
			assert.True(t, called)
			assert.Empty(t, got.ID)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestResolve_TokenForDeletedUserIsAnonymous(t *testing.T) {
	t.Parallel()

	users := store.NewInMemoryUserStore()
	tokens := services.NewTokenService("test-secret")
	resolver := NewSessionResolver(tokens, users)

	token, err := tokens.Issue("68b1f0a2c9e77d0001a4b999")
	require.NoError(t, err)

	var got models.PublicUser
	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resolver.Resolve(identityProbe(&got, &called)).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.Empty(t, got.ID)
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	t.Parallel()

	var called bool
	gate := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/interests", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"code":"UNAUTHORIZED","message":"Authentication required"}`,
		rec.Body.String())
}

func TestRequireAuth_ForwardsResolvedIdentity(t *testing.T) {
	t.Parallel()

	resolver, tokens, user := newResolverFixture(t)
	token, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	var got models.PublicUser
	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/user/interests", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	resolver.Resolve(RequireAuth(identityProbe(&got, &called))).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, user.Public(), got)
	assert.Equal(t, http.StatusOK, rec.Code)
}
