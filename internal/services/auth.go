package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/commercia/commercia-backend/internal/apperrors"
	"github.com/commercia/commercia-backend/internal/models"
	"github.com/commercia/commercia-backend/internal/store"
	"github.com/commercia/commercia-backend/pkg/utils"
)

// AuthService drives the register → verify → login flow. Each user moves
// through it once: created unverified with a pending code, verified by
// the emailed code, and only then able to log in.
type AuthService struct {
	users  store.UserStore
	tokens *TokenService
	mailer EmailSender
}

func NewAuthService(users store.UserStore, tokens *TokenService, mailer EmailSender) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer}
}

// NormalizeEmail lowercases and trims an email the same way the store
// persists it, so lookups and uniqueness are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterResult struct {
	Email   string
	Message string
}

// Register creates an unverified user and kicks off the verification
// email. A failed or slow email dispatch never fails the registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	email = NormalizeEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("Email already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	code, expires, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:                    name,
		Email:                   email,
		PasswordHash:            passwordHash,
		VerificationCode:        &code,
		VerificationCodeExpires: &expires,
		InterestedCategories:    []primitive.ObjectID{},
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration may have won the race past the
		// existence check; the unique index decides.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, err
	}

	go func() {
		if err := s.mailer.SendVerificationEmail(email, code); err != nil {
			log.Printf("Failed to send verification email to %s: %v", email, err)
		}
	}()

	return &RegisterResult{
		Email:   email,
		Message: "Registration successful. Please check your email to verify your account.",
	}, nil
}

// VerifyEmail marks the account matching (email, code) as verified if the
// code has not expired. Wrong code, expired code, and unknown email are
// deliberately indistinguishable to the caller.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	email = NormalizeEmail(email)

	ok, err := s.users.VerifyByEmailAndCode(ctx, email, code, time.Now())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.BadRequest("Invalid or expired verification code.")
	}
	return "Email verified successfully.", nil
}

type LoginResult struct {
	Token string
	User  models.PublicUser
}

// Login checks verification status and the password, then issues a
// session token. Unverified accounts get a ForbiddenError carrying the
// email so the client can route back to the verification page.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return nil, apperrors.Forbidden("Please verify your email before logging in.", user.Email)
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash. Should never happen for hashes we wrote.
		log.Printf("Password verification failed for user %s: %v", user.ID.Hex(), err)
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// CurrentUser returns the public projection for an already-resolved
// identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}
