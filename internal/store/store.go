package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/commercia/commercia-backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the query.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email index.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserStore persists user records. Implementations must enforce email
// uniqueness and keep VerifyByEmailAndCode a single atomic check-then-set.
type UserStore interface {
	// Create inserts a new user and returns it with its assigned ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// FindByEmail looks a user up by (already normalized) email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID looks a user up by hex object ID.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// VerifyByEmailAndCode atomically marks the user matching
	// (email, code, expiry > now) as verified and clears the code and
	// expiry. Returns false when nothing matched: the caller cannot tell
	// a wrong code, an expired code, and an unknown email apart.
	VerifyByEmailAndCode(ctx context.Context, email, code string, now time.Time) (bool, error)
	// ReplaceInterests overwrites the user's whole interest set.
	ReplaceInterests(ctx context.Context, id string, categoryIDs []primitive.ObjectID) error
}

// CategoryStore reads the category catalog.
type CategoryStore interface {
	// List returns a page of categories.
	List(ctx context.Context, skip, limit int64) ([]models.Category, error)
	// Count returns the catalog size.
	Count(ctx context.Context) (int64, error)
}
