package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"` // stored lowercased and trimmed
	PasswordHash string `bson:"password_hash" json:"-"`

	IsVerified              bool       `bson:"is_verified" json:"-"`
	VerificationCode        *string    `bson:"verification_code" json:"-"`
	VerificationCodeExpires *time.Time `bson:"verification_code_expires" json:"-"`

	InterestedCategories []primitive.ObjectID `bson:"interested_categories" json:"-"`
}

// PublicUser is the client-facing projection of a user. The password
// hash and verification internals never leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
}
