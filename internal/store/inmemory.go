package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/commercia/commercia-backend/internal/models"
)

// InMemoryUserStore is a map-backed UserStore used in tests and local
// development. It mirrors the Mongo implementation's semantics: unique
// emails, atomic verify-then-clear.
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by hex ID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*models.User)}
}

func (s *InMemoryUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID.Hex()] = &clone
	return user, nil
}

func (s *InMemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *InMemoryUserStore) VerifyByEmailAndCode(ctx context.Context, email, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email != email {
			continue
		}
		if u.VerificationCode == nil || *u.VerificationCode != code {
			continue
		}
		if u.VerificationCodeExpires == nil || !u.VerificationCodeExpires.After(now) {
			continue
		}
		u.IsVerified = true
		u.VerificationCode = nil
		u.VerificationCodeExpires = nil
		u.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

func (s *InMemoryUserStore) ReplaceInterests(ctx context.Context, id string, categoryIDs []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.InterestedCategories = append([]primitive.ObjectID(nil), categoryIDs...)
	u.UpdatedAt = time.Now()
	return nil
}

// InMemoryCategoryStore is a slice-backed CategoryStore for tests.
type InMemoryCategoryStore struct {
	mu         sync.Mutex
	categories []models.Category
}

func NewInMemoryCategoryStore() *InMemoryCategoryStore {
	return &InMemoryCategoryStore{}
}

// Add appends a category and assigns it an ID.
func (s *InMemoryCategoryStore) Add(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cat := models.Category{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
	}
	s.categories = append(s.categories, cat)
	return cat
}

func (s *InMemoryCategoryStore) List(ctx context.Context, skip, limit int64) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if skip >= int64(len(s.categories)) {
		return nil, nil
	}
	end := skip + limit
	if end > int64(len(s.categories)) {
		end = int64(len(s.categories))
	}
	return append([]models.Category(nil), s.categories[skip:end]...), nil
}

func (s *InMemoryCategoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.categories)), nil
}
