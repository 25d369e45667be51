package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/commercia/commercia-backend/internal/middleware"
)

// GetCategories lists one page of the catalog.
// Query: page (1-indexed, default 1), limit (default 6, max 100).
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 0)

	result, err := h.categories.GetCategories(r.Context(), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func parseQueryInt(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// GetUserInterests returns the category IDs the current user selected.
func (h *Handler) GetUserInterests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.IdentityFrom(r.Context())

	ids, err := h.categories.GetUserInterests(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"categoryIds": ids,
	})
}

type UpdateInterestsRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// UpdateUserInterests replaces the current user's interest set.
func (h *Handler) UpdateUserInterests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.IdentityFrom(r.Context())

	var req UpdateInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.categories.UpdateUserInterests(r.Context(), user.ID, req.CategoryIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": msg,
	})
}
