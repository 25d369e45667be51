package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/commercia/commercia-backend/internal/apperrors"
	"github.com/commercia/commercia-backend/internal/config"
	"github.com/commercia/commercia-backend/internal/services"
)

// Handler bundles the services the HTTP layer fronts.
type Handler struct {
	cfg        *config.Config
	auth       *services.AuthService
	categories *services.CategoryService
}

func New(cfg *config.Config, auth *services.AuthService, categories *services.CategoryService) *Handler {
	return &Handler{cfg: cfg, auth: auth, categories: categories}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   any    `json:"cause,omitempty"`
}

// respondError maps a service error onto the wire. Untagged errors become
// a generic 500 without internal detail.
func respondError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	body := errorBody{Code: string(kind), Message: err.Error()}

	var e *apperrors.Error
	if errors.As(err, &e) {
		body.Cause = e.Cause
	}

	if kind == apperrors.KindInternal || kind == apperrors.KindHash || kind == apperrors.KindDelivery {
		log.Printf("ERROR: %v", err)
		body.Code = string(apperrors.KindInternal)
		body.Message = "Something went wrong"
		body.Cause = nil
	}

	respondJSON(w, apperrors.HTTPStatus(kind), body)
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondError(w, apperrors.BadRequest(message))
}
