package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/commercia/commercia-backend/internal/apperrors"
	"github.com/commercia/commercia-backend/internal/models"
	"github.com/commercia/commercia-backend/internal/store"
)

const (
	// DefaultPageSize matches the interest-selection grid on the frontend.
	DefaultPageSize = 6
	// MaxPageSize bounds a single category page.
	MaxPageSize = 100
)

// CategoryService lists the catalog and manages a user's interest set.
type CategoryService struct {
	categories store.CategoryStore
	users      store.UserStore
}

func NewCategoryService(categories store.CategoryStore, users store.UserStore) *CategoryService {
	return &CategoryService{categories: categories, users: users}
}

type CategoryPage struct {
	Categories      []models.Category `json:"categories"`
	TotalPages      int64             `json:"totalPages"`
	CurrentPage     int64             `json:"currentPage"`
	TotalCategories int64             `json:"totalCategories"`
}

// GetCategories returns one 1-indexed page of the catalog. Page defaults
// to 1 and limit is clamped to [1, 100] with a default of 6.
func (s *CategoryService) GetCategories(ctx context.Context, page, limit int64) (*CategoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	skip := (page - 1) * limit
	categories, err := s.categories.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.categories.Count(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}

	return &CategoryPage{
		Categories:      categories,
		TotalPages:      (total + limit - 1) / limit,
		CurrentPage:     page,
		TotalCategories: total,
	}, nil
}

// GetUserInterests returns the IDs of the categories the user selected.
func (s *CategoryService) GetUserInterests(ctx context.Context, userID string) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(user.InterestedCategories))
	for _, oid := range user.InterestedCategories {
		ids = append(ids, oid.Hex())
	}
	return ids, nil
}

// UpdateUserInterests replaces the user's whole interest set. It is not
// a merge: selections absent from categoryIDs are dropped.
func (s *CategoryService) UpdateUserInterests(ctx context.Context, userID string, categoryIDs []string) (string, error) {
	oids := make([]primitive.ObjectID, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return "", apperrors.BadRequest("Invalid category id")
		}
		oids = append(oids, oid)
	}

	err := s.users.ReplaceInterests(ctx, userID, oids)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperrors.NotFound("User not found")
	}
	if err != nil {
		return "", err
	}
	return "Interests updated successfully", nil
}
