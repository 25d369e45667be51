package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/commercia/commercia-backend/internal/middleware"
	"github.com/commercia/commercia-backend/internal/services"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required,
			validation.Length(3, 0).Error("Name must be at least 3 characters")),
		validation.Field(&r.Email, validation.Required, is.Email.Error("Invalid email")),
		validation.Field(&r.Password, validation.Required,
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
			validation.By(passwordComplexity)),
	)
}

// passwordComplexity enforces the signup password rules: at least one
// uppercase letter, one digit, and one special character.
func passwordComplexity(value interface{}) error {
	s, _ := value.(string)
	var hasUpper, hasDigit, hasSpecial bool
	for _, c := range s {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*", c):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasDigit || !hasSpecial {
		return errors.New("must have at least 1 uppercase letter, 1 digit, and 1 special character")
	}
	return nil
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email.Error("Invalid email")),
		validation.Field(&r.Code, validation.Required,
			validation.Length(8, 8).Error("Code must be 8 digits")),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email.Error("Invalid email")),
		validation.Field(&r.Password, validation.Required),
	)
}

// Register creates an unverified account and emails the verification code.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	res, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"email":   res.Email,
		"message": res.Message,
	})
}

// VerifyEmail redeems an emailed verification code.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	msg, err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": msg,
	})
}

// Login issues a session token and mirrors it into the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(services.TokenDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side; a copy the client kept stays valid
// until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully.",
	})
}

// GetMe returns the identity resolved for this request.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		// The auth gate runs before this handler; this is a wiring bug.
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Authentication required",
		})
		return
	}
	respondJSON(w, http.StatusOK, user)
}
