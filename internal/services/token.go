package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenDuration is how long a session token stays valid after login.
const TokenDuration = 7 * 24 * time.Hour

// TokenService issues and verifies the signed session tokens handed to
// clients at login. Tokens are stateless: nothing is stored server-side
// and logout does not invalidate them.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Issue signs a session token for userID with a 7-day expiry.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the user ID it was issued
// for. It fails closed: a malformed token, a bad signature, a wrong
// signing method, or an expired token all come back as ("", false).
func (s *TokenService) Verify(tokenString string) (string, bool) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
