package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/commercia/commercia-backend/internal/models"
	"github.com/commercia/commercia-backend/internal/services"
	"github.com/commercia/commercia-backend/internal/store"
)

// TokenCookieName is the cookie the frontend keeps the session token in.
const TokenCookieName = "token"

type contextKey struct{ name string }

var identityKey = &contextKey{"identity"}

// SessionResolver turns a bearer or cookie credential into a resolved
// identity on the request context. It never rejects a request by itself;
// a missing, invalid, or expired credential just leaves the request
// anonymous and the RequireAuth gate decides.
type SessionResolver struct {
	tokens *services.TokenService
	users  store.UserStore
}

func NewSessionResolver(tokens *services.TokenService, users store.UserStore) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users}
}

// Resolve attaches the identity for a valid credential, if any. The
// Authorization header wins over the cookie.
func (s *SessionResolver) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := credentialFrom(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := s.tokens.Verify(token)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.FindByID(r.Context(), userID)
		if err != nil {
			// Token outlived the account, or the store hiccuped; either
			// way the request proceeds anonymous.
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user.Public())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func credentialFrom(r *http.Request) string {
	if token := extractBearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// IdentityFrom returns the resolved identity attached to ctx, if any.
func IdentityFrom(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(identityKey).(models.PublicUser)
	return user, ok
}

// RequireAuth rejects requests that carry no resolved identity before the
// wrapped handler runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"code":    "UNAUTHORIZED",
				"message": "Authentication required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
