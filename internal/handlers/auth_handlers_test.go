package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercia/commercia-backend/internal/config"
	"github.com/commercia/commercia-backend/internal/handlers"
	"github.com/commercia/commercia-backend/internal/middleware"
	"github.com/commercia/commercia-backend/internal/routes"
	"github.com/commercia/commercia-backend/internal/services"
	"github.com/commercia/commercia-backend/internal/store"
)

type noopMailer struct{}

func (noopMailer) SendVerificationEmail(email, code string) error { return nil }

type testApp struct {
	router     *chi.Mux
	users      *store.InMemoryUserStore
	categories *store.InMemoryCategoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", Environment: "test"}
	users := store.NewInMemoryUserStore()
	categories := store.NewInMemoryCategoryStore()
	tokens := services.NewTokenService(cfg.JWTSecret)

	h := handlers.New(cfg,
		services.NewAuthService(users, tokens, noopMailer{}),
		services.NewCategoryService(categories, users),
	)

	r := chi.NewRouter()
	routes.SetupRoutes(r, h, middleware.NewSessionResolver(tokens, users))
	return &testApp{router: r, users: users, categories: categories}
}

func (a *testApp) do(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (a *testApp) register(t *testing.T, email string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"name":"Alice","email":%q,"password":"Passw0rd!"}`, email), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testApp) verify(t *testing.T, email string) {
	t.Helper()
	u, err := a.users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u.VerificationCode)
	rec := a.do(t, http.MethodPost, "/api/auth/verify-email",
		fmt.Sprintf(`{"email":%q,"code":%q}`, email, *u.VerificationCode), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (a *testApp) login(t *testing.T, email string) (token string, cookie *http.Cookie) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"Passw0rd!"}`, email), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return token, cookie
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"Alice@Example.com","password":"Passw0rd!"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "alice@example.com", body["email"])

	// The verification code never appears in any response.
	u, err := app.users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotContains(t, rec.Body.String(), *u.VerificationCode)
	assert.NotContains(t, rec.Body.String(), u.PasswordHash)

	app.verify(t, "alice@example.com")
	token, cookie := app.login(t, "alice@example.com")

	// The cookie mirrors the bearer token.
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(services.TokenDuration.Seconds()), cookie.MaxAge)

	// Bearer header resolves the identity.
	rec = app.do(t, http.MethodGet, "/api/auth/me", "", http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.Equal(t, "Alice", me["name"])
	assert.Equal(t, "alice@example.com", me["email"])
	assert.Equal(t, u.ID.Hex(), me["id"])

	// So does the cookie alone.
	rec = app.do(t, http.MethodGet, "/api/auth/me", "", http.Header{"Cookie": {cookie.Name + "=" + cookie.Value}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"short name", `{"name":"Al","email":"a@example.com","password":"Passw0rd!"}`},
		{"bad email", `{"name":"Alice","email":"not-an-email","password":"Passw0rd!"}`},
		{"short password", `{"name":"Alice","email":"a@example.com","password":"P0!"}`},
		{"no uppercase", `{"name":"Alice","email":"a@example.com","password":"passw0rd!"}`},
		{"no digit", `{"name":"Alice","email":"a@example.com","password":"Password!"}`},
		{"no special", `{"name":"Alice","email":"a@example.com","password":"Passw0rd"}`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.register(t, "alice@example.com")

	rec := app.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Other","email":"ALICE@example.com","password":"Passw0rd!"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, rec)["code"])
}

func TestLogin_BeforeVerificationForbiddenWithEmailCause(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.register(t, "alice@example.com")

	rec := app.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"Passw0rd!"}`, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "FORBIDDEN", body["code"])
	cause, ok := body["cause"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", cause["email"])
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.register(t, "alice@example.com")
	app.verify(t, "alice@example.com")

	rec := app.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"WrongPass1!"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])

	rec = app.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"Passw0rd!"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
}

func TestVerifyEmail_BadCode(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.register(t, "alice@example.com")

	rec := app.do(t, http.MethodPost, "/api/auth/verify-email",
		`{"email":"alice@example.com","code":"00000000"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired verification code.", decodeBody(t, rec)["message"])
}

func TestProtectedRoutes_RejectBadCredentials(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/user/interests"},
		{http.MethodPut, "/api/user/interests"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			// Missing, garbage, and well-formed-but-unverifiable tokens
			// all land on the same 401.
			rec := app.do(t, p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = app.do(t, p.method, p.path, "", http.Header{"Authorization": {"Bearer garbage"}})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			other, err := services.NewTokenService("other-secret").Issue("68b1f0a2c9e77d0001a4b001")
			require.NoError(t, err)
			rec = app.do(t, p.method, p.path, "", http.Header{"Authorization": {"Bearer " + other}})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", decodeBody(t, rec)["code"])
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
